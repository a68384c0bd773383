package humdesk

import "time"

// Transcript is the local view of a conversation: its metadata plus the
// messages the client has seen, in order.
type Transcript struct {
	Conversation Conversation
	Messages     []Message
	UpdatedAt    time.Time
}

// LastReply returns the content of the most recent assistant message, or ""
// if there is none.
func (t *Transcript) LastReply() string {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleAssistant {
			return t.Messages[i].Content
		}
	}
	return ""
}
