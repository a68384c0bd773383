package bubbletea_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/humdesk"
	bt "github.com/fwojciec/humdesk/bubbletea"
	"github.com/fwojciec/humdesk/mock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// initModel creates a model over an empty transcript and sends a
// WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, chat bt.ChatFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, chat, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, chat bt.ChatFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(chat, &humdesk.Transcript{}, humdesk.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// submit types text and presses Enter without running the returned command,
// leaving the model in the running state.
func submit(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Running())
	return m
}

// nopChat is a chat function that does nothing.
func nopChat(context.Context, *humdesk.Transcript, string, humdesk.TokenFunc) error {
	return nil
}

// serverChat returns a chat function backed by humdesk.Chat whose completer
// streams tokens and whose server persists reply.
func serverChat(reply string, tokens ...string) bt.ChatFunc {
	convs := &mock.ConversationService{
		SendMessageFn: func(_ context.Context, req humdesk.ChatRequest) (humdesk.ChatResult, error) {
			now := time.Now()
			return humdesk.ChatResult{
				ConversationID: uuid.New(),
				Message:        humdesk.Message{ID: uuid.New(), Role: humdesk.RoleUser, Content: req.Message, CreatedAt: now},
				Reply:          humdesk.Message{ID: uuid.New(), Role: humdesk.RoleAssistant, Content: reply, CreatedAt: now},
			}, nil
		},
	}
	return bt.ChatSender(humdesk.NewChat(&mock.Completer{CompleteFn: mock.Tokens(nil, tokens...)}, convs))
}
