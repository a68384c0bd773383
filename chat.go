package humdesk

import (
	"context"
	"time"
)

// Chat orchestrates one chat turn: it streams the assistant answer for
// display, then persists the exchange in the conversation.
type Chat struct {
	completer     Completer
	conversations ConversationService
	useMemory     bool
}

// ChatOption configures a Chat.
type ChatOption func(*Chat)

// WithMemory asks the server to use its long-term memory when persisting
// the exchange.
func WithMemory(enabled bool) ChatOption {
	return func(c *Chat) {
		c.useMemory = enabled
	}
}

// NewChat creates a Chat using completer for streaming and conversations
// for persistence.
func NewChat(completer Completer, conversations ConversationService, opts ...ChatOption) *Chat {
	c := &Chat{completer: completer, conversations: conversations, useMemory: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send appends the user message to t, streams the answer through onToken and
// persists the exchange. On success the persisted user and assistant
// messages replace the optimistic one. On any failure, including
// cancellation, t is restored to its previous messages and the error is
// returned unchanged.
func (c *Chat) Send(ctx context.Context, t *Transcript, text string, onToken TokenFunc) (ChatResult, error) {
	req := CompletionRequest{Message: text}
	if err := req.Validate(); err != nil {
		return ChatResult{}, err
	}

	n := len(t.Messages)
	t.Messages = append(t.Messages, Message{
		Role:      RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	})
	rollback := func() {
		t.Messages = t.Messages[:n]
	}

	if err := c.completer.Complete(ctx, req, onToken); err != nil {
		rollback()
		return ChatResult{}, err
	}
	if err := ctx.Err(); err != nil {
		rollback()
		return ChatResult{}, err
	}

	res, err := c.conversations.SendMessage(ctx, ChatRequest{
		ConversationID: t.Conversation.ID,
		Message:        text,
		UseMemory:      c.useMemory,
	})
	if err != nil {
		rollback()
		return ChatResult{}, err
	}

	t.Messages = append(t.Messages[:n], res.Message, res.Reply)
	t.Conversation.ID = res.ConversationID
	t.Conversation.MessageCount = len(t.Messages)
	t.UpdatedAt = time.Now()
	return res, nil
}
