package sse

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/humdesk"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const chunkSize = 4096

// readerState tracks where a Reader is in its single stream.
type readerState int

const (
	stateReading readerState = iota
	stateDone                // Terminal marker seen or input exhausted.
	stateFailed              // Error marker, read error or cancellation.
)

// Reader reassembles frames from a byte stream and dispatches tokens.
// A Reader serves exactly one stream and must not be shared between
// goroutines.
type Reader struct {
	onToken humdesk.TokenFunc

	dec     transform.Transformer
	pending []byte // undecoded tail, e.g. half of a multi-byte rune
	scratch [chunkSize]byte

	buf []byte // decoded text not yet split into frames
	off int    // start of the unconsumed part of buf

	state readerState
	err   error
}

// NewReader creates a Reader delivering tokens to onToken. A nil onToken
// discards tokens.
func NewReader(onToken humdesk.TokenFunc) *Reader {
	return &Reader{
		onToken: onToken,
		dec:     unicode.UTF8.NewDecoder(),
	}
}

// Consume reads body until the terminal marker, an error marker, the end of
// input, or cancellation of ctx.
//
// It returns nil on the terminal marker or at end of input; unterminated
// trailing text is discarded. An error marker yields a *humdesk.StreamError.
// Cancellation yields ctx.Err(). Tokens already delivered are not retracted.
func (r *Reader) Consume(ctx context.Context, body io.Reader) error {
	chunk := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}
		n, rerr := body.Read(chunk)
		if n > 0 {
			done, err := r.Feed(ctx, chunk[:n])
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
		switch {
		case rerr == io.EOF:
			r.state = stateDone
			return nil
		case rerr != nil:
			if err := ctx.Err(); err != nil {
				return r.fail(err)
			}
			return r.fail(fmt.Errorf("sse: %w", rerr))
		}
	}
}

// Feed processes one chunk of the stream. It reports done when the terminal
// marker was reached; a non-nil error means the stream failed. Every
// complete frame in the buffer is handled before Feed returns. Calling Feed
// after the stream finished returns the earlier outcome.
func (r *Reader) Feed(ctx context.Context, chunk []byte) (done bool, err error) {
	switch r.state {
	case stateDone:
		return true, nil
	case stateFailed:
		return true, r.err
	}
	if err := r.decode(chunk); err != nil {
		return true, r.fail(fmt.Errorf("sse: decode: %w", err))
	}
	return r.drain(ctx)
}

// decode appends the UTF-8 decoded form of chunk to buf. An incomplete
// trailing sequence is kept in pending until the next chunk completes it.
func (r *Reader) decode(chunk []byte) error {
	src := append(r.pending, chunk...)
	for {
		nDst, nSrc, err := r.dec.Transform(r.scratch[:], src, false)
		r.buf = append(r.buf, r.scratch[:nDst]...)
		src = src[nSrc:]
		switch err {
		case nil:
			r.pending = r.pending[:0]
			return nil
		case transform.ErrShortDst:
			continue
		case transform.ErrShortSrc:
			r.pending = append(r.pending[:0], src...)
			return nil
		default:
			return err
		}
	}
}

// drain handles every complete frame in buf.
func (r *Reader) drain(ctx context.Context) (bool, error) {
	sep := []byte(separator)
	for {
		idx := bytes.Index(r.buf[r.off:], sep)
		if idx < 0 {
			r.compact()
			return false, nil
		}
		raw := string(r.buf[r.off : r.off+idx])
		r.off += idx + len(sep)

		payload, ok := parseFrame(raw)
		if !ok {
			continue
		}
		kind, value := Classify(payload)
		switch kind {
		case KindDone:
			r.state = stateDone
			return true, nil
		case KindError:
			return true, r.fail(&humdesk.StreamError{Message: value})
		}
		if err := ctx.Err(); err != nil {
			return true, r.fail(err)
		}
		if r.onToken != nil {
			r.onToken(value)
		}
	}
}

// compact moves the unterminated tail to the front of buf.
func (r *Reader) compact() {
	if r.off == 0 {
		return
	}
	n := copy(r.buf, r.buf[r.off:])
	r.buf = r.buf[:n]
	r.off = 0
}

func (r *Reader) fail(err error) error {
	r.state = stateFailed
	r.err = err
	return err
}
