// Package http implements the humdesk service interfaces against the
// assistant backend's REST API.
//
// Completions are streamed over server-sent events and decoded by
// [sse.Reader]. Single-file uploads run in the background and report
// byte-level progress through a counting reader wrapped around a multipart
// body whose length is computed up front.
package http

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fwojciec/humdesk"
	"github.com/google/uuid"
)

const (
	defaultBaseURL = "http://127.0.0.1:8000"

	conversationsPath  = "/api/conversations"
	chatPath           = "/api/chat"
	completeStreamPath = "/api/chat/complete/stream"
	uploadPath         = "/api/docs/upload"
	filesPath          = "/api/docs/files"
	integrationsPath   = "/api/integrations"
	humdataPath        = "/api/humdata"

	// uploadField is the multipart field the upload endpoints read files from.
	uploadField = "files"
)

// apiTime decodes the backend's timestamps. The server emits naive ISO 8601
// values (no zone) for most columns; those are read as UTC.
type apiTime struct {
	time.Time
}

var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *apiTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": unrecognized timestamp"}
}

// ptr returns nil for the zero time.
func (t apiTime) ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// apiSize decodes a byte size sent either as a number or, as the Google
// Drive API does, as a decimal string.
type apiSize int64

func (s *apiSize) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		str, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		if str == "" {
			return nil
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return err
		}
		*s = apiSize(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return err
		}
		v = int64(f)
	}
	*s = apiSize(v)
	return nil
}

type apiConversation struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    apiTime   `json:"created_at"`
	UpdatedAt    apiTime   `json:"updated_at"`
	IsArchived   bool      `json:"is_archived"`
	MessageCount int       `json:"message_count"`
}

func (c apiConversation) domain() humdesk.Conversation {
	return humdesk.Conversation{
		ID:           c.ID,
		Title:        c.Title,
		CreatedAt:    c.CreatedAt.Time,
		UpdatedAt:    c.UpdatedAt.Time,
		Archived:     c.IsArchived,
		MessageCount: c.MessageCount,
	}
}

type apiMessage struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt apiTime   `json:"created_at"`
}

func (m apiMessage) domain() humdesk.Message {
	return humdesk.Message{
		ID:        m.ID,
		Role:      humdesk.Role(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Time,
	}
}

type apiCreateConversation struct {
	Title string `json:"title,omitempty"`
}

type apiChatRequest struct {
	Message        string     `json:"message"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	UseMemory      bool       `json:"use_memory"`
}

type apiChatResponse struct {
	Message           apiMessage `json:"message"`
	AssistantResponse apiMessage `json:"assistant_response"`
	ConversationID    uuid.UUID  `json:"conversation_id"`
}

type apiCompleteRequest struct {
	Message string `json:"message"`
}

type apiFile struct {
	Name string  `json:"name"`
	Size apiSize `json:"size"`
}

type apiFiles struct {
	Files []apiFile `json:"files"`
}

func (f apiFiles) domain() []humdesk.File {
	if len(f.Files) == 0 {
		return nil
	}
	files := make([]humdesk.File, len(f.Files))
	for i, af := range f.Files {
		files[i] = humdesk.File{Name: af.Name, Size: int64(af.Size)}
	}
	return files
}

type apiDriveItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	MimeType string  `json:"mimeType"`
	Size     apiSize `json:"size"`
}

type apiDriveItems struct {
	Files []apiDriveItem `json:"files"`
}

type apiImportResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
}

type apiCrisis struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	SourceID    string  `json:"source_id"`
	Title       string  `json:"title"`
	Country     string  `json:"country"`
	URL         string  `json:"url"`
	PublishedAt apiTime `json:"published_at"`
}

type apiJob struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	SourceID    string  `json:"source_id"`
	Title       string  `json:"title"`
	Org         string  `json:"org"`
	Location    string  `json:"location"`
	URL         string  `json:"url"`
	PublishedAt apiTime `json:"published_at"`
	Deadline    apiTime `json:"deadline"`
}

type apiFunding struct {
	ID        string   `json:"id"`
	Year      *int     `json:"year"`
	Country   string   `json:"country"`
	Cluster   string   `json:"cluster"`
	Donor     string   `json:"donor"`
	Recipient string   `json:"recipient"`
	Amount    *float64 `json:"amount"`
	Currency  string   `json:"currency"`
}

// apiErrorResponse is FastAPI's error envelope.
type apiErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}
