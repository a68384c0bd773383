// Package sse reads the assistant's server-sent-event token stream.
//
// The wire format is a sequence of blank-line separated text frames. Frames
// starting with "data:" carry a payload; every other frame (comments,
// heartbeats) is ignored. The payload "[DONE]" ends the stream gracefully and
// a payload starting with "[ERROR]" aborts it with the trailing message.
// Anything else is a token.
package sse

import "strings"

// Wire format markers.
const (
	Prefix      = "data:"
	Done        = "[DONE]"
	ErrorPrefix = "[ERROR]"
	separator   = "\n\n"
)

// Kind is the class of a frame payload.
type Kind int

const (
	KindToken Kind = iota // Incremental text fragment.
	KindDone              // Graceful end of stream.
	KindError             // In-band error.
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Classify returns the class of payload and its value: the token text, the
// error message, or "" for the terminal marker. Classes are checked in the
// order done, error, token.
func Classify(payload string) (Kind, string) {
	switch {
	case payload == Done:
		return KindDone, ""
	case strings.HasPrefix(payload, ErrorPrefix):
		return KindError, strings.TrimSpace(strings.TrimPrefix(payload, ErrorPrefix))
	default:
		return KindToken, payload
	}
}

// parseFrame extracts the payload of a raw frame. It reports false for
// frames that do not carry data.
func parseFrame(raw string) (string, bool) {
	frame := strings.TrimSpace(raw)
	payload, ok := strings.CutPrefix(frame, Prefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(payload), true
}
