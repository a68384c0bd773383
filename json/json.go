// Package json persists conversation transcripts as local JSON files so a
// chat can be resumed and reviewed offline.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/humdesk"
	"github.com/google/uuid"
)

// envelope is the v1 wire format for a persisted transcript.
type envelope struct {
	Version      int             `json:"version"`
	Conversation conversationDTO `json:"conversation"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Messages     []messageDTO    `json:"messages"`
}

type conversationDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Archived  bool      `json:"archived,omitempty"`
}

type messageDTO struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalTranscript serializes a Transcript to JSON in v1 envelope format.
func MarshalTranscript(t humdesk.Transcript) ([]byte, error) {
	env := envelope{
		Version: 1,
		Conversation: conversationDTO{
			ID:        t.Conversation.ID,
			Title:     t.Conversation.Title,
			CreatedAt: t.Conversation.CreatedAt,
			UpdatedAt: t.Conversation.UpdatedAt,
			Archived:  t.Conversation.Archived,
		},
		UpdatedAt: t.UpdatedAt,
		Messages:  make([]messageDTO, len(t.Messages)),
	}
	for i, m := range t.Messages {
		if err := validRole(m.Role); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = messageDTO{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes a Transcript from JSON in v1 envelope
// format. The message count is derived from the stored messages.
func UnmarshalTranscript(data []byte) (humdesk.Transcript, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return humdesk.Transcript{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return humdesk.Transcript{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]humdesk.Message, len(env.Messages))
	for i, dto := range env.Messages {
		role := humdesk.Role(dto.Role)
		if err := validRole(role); err != nil {
			return humdesk.Transcript{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = humdesk.Message{
			ID:        dto.ID,
			Role:      role,
			Content:   dto.Content,
			CreatedAt: dto.CreatedAt,
		}
	}
	return humdesk.Transcript{
		Conversation: humdesk.Conversation{
			ID:           env.Conversation.ID,
			Title:        env.Conversation.Title,
			CreatedAt:    env.Conversation.CreatedAt,
			UpdatedAt:    env.Conversation.UpdatedAt,
			Archived:     env.Conversation.Archived,
			MessageCount: len(msgs),
		},
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}

// Path returns the file a transcript for id is stored at under dir.
func Path(dir string, id uuid.UUID) string {
	return filepath.Join(dir, id.String()+".json")
}

// Save writes a Transcript to a JSON file, creating parent directories as
// needed. The file is replaced atomically.
func Save(path string, t humdesk.Transcript) error {
	data, err := MarshalTranscript(t)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Transcript from a JSON file.
func Load(path string) (humdesk.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return humdesk.Transcript{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}

func validRole(r humdesk.Role) error {
	switch r {
	case humdesk.RoleUser, humdesk.RoleAssistant, humdesk.RoleSystem:
		return nil
	default:
		return fmt.Errorf("unknown role %q", r)
	}
}
