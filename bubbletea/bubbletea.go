// Package bubbletea provides the Bubble Tea TUIs for humdesk: the chat view
// and the upload progress panel.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/humdesk"
)

// ChatFunc runs one chat turn for text against t. The onToken callback is
// called for each streamed fragment of the answer. The function blocks until
// the turn is persisted or failed, and must leave t consistent with the
// server on return.
type ChatFunc func(ctx context.Context, t *humdesk.Transcript, text string, onToken humdesk.TokenFunc) error

// ChatSender adapts c to a ChatFunc.
func ChatSender(c *humdesk.Chat) ChatFunc {
	return func(ctx context.Context, t *humdesk.Transcript, text string, onToken humdesk.TokenFunc) error {
		_, err := c.Send(ctx, t, text, onToken)
		return err
	}
}

// Run creates and runs a Bubble Tea program for m in the alternate screen.
// It blocks until the program exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	return p.Run()
}

// TokenMsg delivers one streamed answer fragment to the chat model.
type TokenMsg struct {
	Token string
}

// TurnDoneMsg signals that the chat turn has completed.
type TurnDoneMsg struct {
	Err error
}
