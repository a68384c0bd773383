package bubbletea

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes server-provided text safe to draw: it strips ANSI escape
// sequences and control characters other than tab and newline. Carriage
// returns are dropped, so CRLF becomes LF even when split across fragments.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	if !strings.ContainsFunc(s, isControl) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return (r < 0x20 && r != '\t' && r != '\n') || r == 0x7F
}
