package sse_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/humdesk"
	"github.com/fwojciec/humdesk/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns one chunk per Read call.
type chunkReader struct {
	chunks [][]byte
}

func newChunkReader(chunks ...string) *chunkReader {
	r := &chunkReader{}
	for _, c := range chunks {
		r.chunks = append(r.chunks, []byte(c))
	}
	return r
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

// consume runs a Reader over chunks and returns the collected tokens.
func consume(t *testing.T, chunks ...string) ([]string, error) {
	t.Helper()
	var tokens []string
	r := sse.NewReader(func(tok string) { tokens = append(tokens, tok) })
	err := r.Consume(context.Background(), newChunkReader(chunks...))
	return tokens, err
}

func TestReader_Consume(t *testing.T) {
	t.Parallel()

	t.Run("frame split across chunks", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: hel", "lo\n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, tokens)
	})

	t.Run("separator split across chunks", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: a\n", "\ndata: b\n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tokens)
	})

	t.Run("multiple frames in one chunk", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: a\n\ndata: b\n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tokens)
	})

	t.Run("terminal marker stops processing", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: a\n\ndata: [DONE]\n\ndata: c\n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tokens)
	})

	t.Run("terminal marker stops reading further chunks", func(t *testing.T) {
		t.Parallel()
		body := newChunkReader("data: a\n\ndata: [DONE]\n\n", "data: c\n\n")
		var tokens []string
		r := sse.NewReader(func(tok string) { tokens = append(tokens, tok) })
		require.NoError(t, r.Consume(context.Background(), body))
		assert.Equal(t, []string{"a"}, tokens)
		assert.Len(t, body.chunks, 1, "second chunk must not be read")
	})

	t.Run("error marker aborts", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: a\n\ndata: [ERROR] boom\n\n")
		require.Error(t, err)
		assert.Equal(t, []string{"a"}, tokens)
		var se *humdesk.StreamError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "boom", se.Message)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("non-data frames ignored", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, ": heartbeat\n\ndata: x\n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, tokens)
	})

	t.Run("end of input without terminal marker", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: a\n\n", "data: partial")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tokens)
	})

	t.Run("empty stream", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t)
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})

	t.Run("payload whitespace trimmed", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "\n  data:   spaced out  \n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"spaced out"}, tokens)
	})

	t.Run("multi-byte rune split across chunks", func(t *testing.T) {
		t.Parallel()
		raw := []byte("data: héllo 🌍\n\n")
		// Split inside the two-byte é and inside the four-byte emoji.
		e := strings.Index(string(raw), "é") + 1
		g := strings.Index(string(raw), "🌍") + 2
		tokens, err := consume(t, string(raw[:e]), string(raw[e:g]), string(raw[g:]))
		require.NoError(t, err)
		assert.Equal(t, []string{"héllo 🌍"}, tokens)
	})

	t.Run("one byte at a time", func(t *testing.T) {
		t.Parallel()
		var tokens []string
		r := sse.NewReader(func(tok string) { tokens = append(tokens, tok) })
		body := iotest.OneByteReader(strings.NewReader("data: ça\n\n: ping\n\ndata: va\n\ndata: [DONE]\n\n"))
		require.NoError(t, r.Consume(context.Background(), body))
		assert.Equal(t, []string{"ça", "va"}, tokens)
	})

	t.Run("invalid utf-8 replaced", func(t *testing.T) {
		t.Parallel()
		tokens, err := consume(t, "data: a\xffb\n\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"a�b"}, tokens)
	})

	t.Run("read error is wrapped", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("connection reset")
		var tokens []string
		r := sse.NewReader(func(tok string) { tokens = append(tokens, tok) })
		body := io.MultiReader(strings.NewReader("data: a\n\n"), iotest.ErrReader(wantErr))
		err := r.Consume(context.Background(), body)
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, []string{"a"}, tokens)
	})

	t.Run("nil callback discards tokens", func(t *testing.T) {
		t.Parallel()
		r := sse.NewReader(nil)
		err := r.Consume(context.Background(), newChunkReader("data: a\n\ndata: [DONE]\n\n"))
		assert.NoError(t, err)
	})
}

func TestReader_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("cancelled before start", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		r := sse.NewReader(func(string) { called = true })
		err := r.Consume(ctx, newChunkReader("data: a\n\n"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("cancel inside callback stops buffered frames", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var tokens []string
		r := sse.NewReader(func(tok string) {
			tokens = append(tokens, tok)
			cancel()
		})
		err := r.Consume(ctx, newChunkReader("data: a\n\ndata: b\n\ndata: c\n\n"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"a"}, tokens)
	})
}

func TestReader_Feed(t *testing.T) {
	t.Parallel()

	t.Run("frames complete across feeds", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		var tokens []string
		r := sse.NewReader(func(tok string) { tokens = append(tokens, tok) })

		done, err := r.Feed(ctx, []byte("data: one\n\ndata: t"))
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, []string{"one"}, tokens)

		done, err = r.Feed(ctx, []byte("wo\n\ndata: [DONE]\n\n"))
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, []string{"one", "two"}, tokens)
	})

	t.Run("feed after terminal marker is a no-op", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		var tokens []string
		r := sse.NewReader(func(tok string) { tokens = append(tokens, tok) })
		_, err := r.Feed(ctx, []byte("data: [DONE]\n\n"))
		require.NoError(t, err)

		done, err := r.Feed(ctx, []byte("data: late\n\n"))
		require.NoError(t, err)
		assert.True(t, done)
		assert.Empty(t, tokens)
	})

	t.Run("feed after error repeats the error", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		r := sse.NewReader(nil)
		_, first := r.Feed(ctx, []byte("data: [ERROR] bad\n\n"))
		require.Error(t, first)

		done, second := r.Feed(ctx, []byte("data: x\n\n"))
		assert.True(t, done)
		assert.Equal(t, first, second)
	})
}
