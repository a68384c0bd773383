package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/fwojciec/humdesk"
	bt "github.com/fwojciec/humdesk/bubbletea"
	"github.com/fwojciec/humdesk/mock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopChat, &humdesk.Transcript{}, humdesk.DefaultTheme())

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopChat)

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - input - status - 2 gaps
		assert.Contains(t, m.View(), "Enter to send")
	})

	t.Run("resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopChat)
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})

	t.Run("resize re-renders content at the new width", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, nopChat, 30, 20)
		m = updateModel(t, m, bt.TokenMsg{Token: "word1 word2 word3 word4 word5 word6 word7 word8"})
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})

		found := false
		for _, line := range strings.Split(m.Viewport.View(), "\n") {
			if strings.Contains(line, "word1") && strings.Contains(line, "word8") {
				found = true
				break
			}
		}
		assert.True(t, found, "expected word1 and word8 on one line after resize:\n%s", m.Viewport.View())
	})

	t.Run("ctrl+c when idle quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopChat)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopChat)
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, updated.(bt.Model).Running())
		assert.Nil(t, cmd)
	})

	t.Run("enter before the first window size is ignored", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopChat, &humdesk.Transcript{}, humdesk.DefaultTheme())
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
	})

	t.Run("submit shows the message and starts a turn", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "Quels financements pour le Soudan ?")

		assert.Empty(t, m.Input.Value())
		assert.Contains(t, m.View(), "Quels financements pour le Soudan ?")
		assert.Contains(t, m.View(), "Generating...")
	})

	t.Run("tokens stream into one answer block", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "hi")
		m = updateModel(t, m, bt.TokenMsg{Token: "hello "})
		m = updateModel(t, m, bt.TokenMsg{Token: "world"})

		assert.Contains(t, m.View(), "hello world")
	})

	t.Run("enter during a turn is ignored", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "hi")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.True(t, updated.(bt.Model).Running())
		assert.Nil(t, cmd)
	})

	t.Run("turn done re-enables input", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "hi")
		m = updateModel(t, m, bt.TurnDoneMsg{})

		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
		assert.Empty(t, m.Input.Value())
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("next")})
		assert.Equal(t, "next", m.Input.Value())
	})

	t.Run("failed turn shows error and restores the message", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "retry me")
		m = updateModel(t, m, bt.TurnDoneMsg{Err: &humdesk.StatusError{Code: 502}})

		assert.False(t, m.Running())
		var statusErr *humdesk.StatusError
		assert.ErrorAs(t, m.Err(), &statusErr)
		assert.Contains(t, m.View(), "Error")
		assert.Equal(t, "retry me", m.Input.Value())
	})

	t.Run("submit after error clears it", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "first")
		m = updateModel(t, m, bt.TurnDoneMsg{Err: assert.AnError})
		require.Error(t, m.Err())

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.True(t, m.Running())
		assert.NoError(t, m.Err())
	})

	t.Run("stopped turn is not an error", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "hi")
		m = updateModel(t, m, bt.TurnDoneMsg{Err: fmt.Errorf("stream: %w", context.Canceled)})

		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
		assert.Contains(t, m.View(), "Stopped")
		assert.Equal(t, "hi", m.Input.Value())
	})

	t.Run("ctrl+c after error quits", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "hi")
		m = updateModel(t, m, bt.TurnDoneMsg{Err: assert.AnError})

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("ctrl+c during a turn does not quit", func(t *testing.T) {
		t.Parallel()

		m := submit(t, initModel(t, nopChat), "hi")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		assert.Nil(t, cmd)
		assert.True(t, updated.(bt.Model).Running())
	})

	t.Run("long error wraps to viewport width", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, nopChat, 40, 20)
		m = submit(t, m, "hi")
		m = updateModel(t, m, bt.TurnDoneMsg{Err: errors.New("this is a very long error message that should wrap within the viewport width limit")})

		assert.Contains(t, m.Viewport.View(), "width limit")
		for _, line := range strings.Split(m.Viewport.View(), "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 40, "line exceeds viewport width: %q", line)
		}
	})
}

func TestModel_TranscriptOnInit(t *testing.T) {
	t.Parallel()

	tr := &humdesk.Transcript{
		Conversation: humdesk.Conversation{ID: uuid.New(), Title: "Sudan funding"},
		Messages: []humdesk.Message{
			{Role: humdesk.RoleUser, Content: "hello there"},
			{Role: humdesk.RoleAssistant, Content: "Hi! How can I **help**?"},
		},
	}
	m := bt.New(nopChat, tr, humdesk.DefaultTheme())
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.Contains(t, view, "hello there")
	assert.Contains(t, view, "How can I help?")
	assert.Contains(t, view, "Sudan funding")
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full turn streams and persists", func(t *testing.T) {
		t.Parallel()

		tr := &humdesk.Transcript{}
		m := bt.New(serverChat("Stored answer", "Draft ", "answer"), tr, humdesk.DefaultTheme())
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		// The persisted reply replaces the streamed draft once the turn ends.
		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Stored answer"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second)).(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		require.Len(t, tr.Messages, 2)
		assert.Equal(t, "Stored answer", tr.LastReply())
		assert.NotEqual(t, uuid.Nil, tr.Conversation.ID)
	})

	t.Run("ctrl+c stops a streaming turn", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(ctx context.Context, _ humdesk.CompletionRequest, onToken humdesk.TokenFunc) error {
				onToken("partial")
				<-ctx.Done()
				return ctx.Err()
			},
		}
		tr := &humdesk.Transcript{}
		chat := bt.ChatSender(humdesk.NewChat(completer, &mock.ConversationService{}))
		m := bt.New(chat, tr, humdesk.DefaultTheme())
		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("partial"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Stopped"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second)).(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
		assert.Empty(t, tr.Messages)
		assert.Equal(t, "hi", final.Input.Value())
	})
}
