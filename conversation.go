package humdesk

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Conversation is a persisted thread of messages.
type Conversation struct {
	ID           uuid.UUID
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Archived     bool
	MessageCount int
}

// Message is a single persisted conversation message.
type Message struct {
	ID        uuid.UUID
	Role      Role
	Content   string
	CreatedAt time.Time
}

// ChatRequest sends a user message to be persisted and answered.
// A zero ConversationID asks the server to open a new conversation.
type ChatRequest struct {
	ConversationID uuid.UUID
	Message        string
	UseMemory      bool
}

// ChatResult is the server's answer to a ChatRequest.
type ChatResult struct {
	ConversationID uuid.UUID
	Message        Message
	Reply          Message
}

// ExportFormat selects the document format of a conversation export.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportDOCX ExportFormat = "docx"
	ExportXLSX ExportFormat = "xlsx"
)

// ConversationService manages conversations on the backend.
type ConversationService interface {
	ListConversations(ctx context.Context) ([]Conversation, error)
	CreateConversation(ctx context.Context, title string) (Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (Conversation, error)
	Messages(ctx context.Context, id uuid.UUID) ([]Message, error)
	SendMessage(ctx context.Context, req ChatRequest) (ChatResult, error)
	RenameConversation(ctx context.Context, id uuid.UUID, title string) error
	ArchiveConversation(ctx context.Context, id uuid.UUID) error
	DeleteConversation(ctx context.Context, id uuid.UUID) error
	// ExportConversation returns the rendered document. The caller closes it.
	ExportConversation(ctx context.Context, id uuid.UUID, format ExportFormat) (io.ReadCloser, error)
}
