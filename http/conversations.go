package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/humdesk"
	"github.com/google/uuid"
)

// ListConversations returns every conversation, most recently updated first.
func (c *Client) ListConversations(ctx context.Context) ([]humdesk.Conversation, error) {
	var out []apiConversation
	if err := c.send(ctx, http.MethodGet, conversationsPath, nil, nil, &out); err != nil {
		return nil, err
	}
	convs := make([]humdesk.Conversation, len(out))
	for i, ac := range out {
		convs[i] = ac.domain()
	}
	return convs, nil
}

// CreateConversation opens an empty conversation. An empty title lets the
// server pick one.
func (c *Client) CreateConversation(ctx context.Context, title string) (humdesk.Conversation, error) {
	var out apiConversation
	if err := c.send(ctx, http.MethodPost, conversationsPath, nil, apiCreateConversation{Title: title}, &out); err != nil {
		return humdesk.Conversation{}, err
	}
	return out.domain(), nil
}

func (c *Client) GetConversation(ctx context.Context, id uuid.UUID) (humdesk.Conversation, error) {
	var out apiConversation
	if err := c.send(ctx, http.MethodGet, conversationPath(id), nil, nil, &out); err != nil {
		return humdesk.Conversation{}, err
	}
	return out.domain(), nil
}

// Messages returns the conversation's messages in chronological order.
func (c *Client) Messages(ctx context.Context, id uuid.UUID) ([]humdesk.Message, error) {
	var out []apiMessage
	if err := c.send(ctx, http.MethodGet, conversationPath(id)+"/messages", nil, nil, &out); err != nil {
		return nil, err
	}
	msgs := make([]humdesk.Message, len(out))
	for i, am := range out {
		msgs[i] = am.domain()
	}
	return msgs, nil
}

// SendMessage persists a user message and returns it together with the
// assistant's answer.
func (c *Client) SendMessage(ctx context.Context, req humdesk.ChatRequest) (humdesk.ChatResult, error) {
	if err := req.Validate(); err != nil {
		return humdesk.ChatResult{}, fmt.Errorf("http: %w", err)
	}
	in := apiChatRequest{Message: req.Message, UseMemory: req.UseMemory}
	if req.ConversationID != uuid.Nil {
		id := req.ConversationID
		in.ConversationID = &id
	}
	var out apiChatResponse
	if err := c.send(ctx, http.MethodPost, chatPath, nil, in, &out); err != nil {
		return humdesk.ChatResult{}, err
	}
	return humdesk.ChatResult{
		ConversationID: out.ConversationID,
		Message:        out.Message.domain(),
		Reply:          out.AssistantResponse.domain(),
	}, nil
}

func (c *Client) RenameConversation(ctx context.Context, id uuid.UUID, title string) error {
	if title == "" {
		return fmt.Errorf("http: title must not be empty: %w", humdesk.ErrValidation)
	}
	return c.send(ctx, http.MethodPut, conversationPath(id)+"/title", url.Values{"title": {title}}, nil, nil)
}

func (c *Client) ArchiveConversation(ctx context.Context, id uuid.UUID) error {
	return c.send(ctx, http.MethodPut, conversationPath(id)+"/archive", nil, nil, nil)
}

func (c *Client) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return c.send(ctx, http.MethodDelete, conversationPath(id), nil, nil, nil)
}

// ExportConversation renders the conversation server side in the given
// format.
func (c *Client) ExportConversation(ctx context.Context, id uuid.UUID, format humdesk.ExportFormat) (io.ReadCloser, error) {
	f, err := humdesk.ParseExportFormat(string(format))
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return c.open(ctx, conversationPath(id)+"/export", url.Values{"format": {string(f)}})
}

func conversationPath(id uuid.UUID) string {
	return conversationsPath + "/" + id.String()
}
