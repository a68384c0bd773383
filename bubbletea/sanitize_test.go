package bubbletea_test

import (
	"testing"

	bt "github.com/fwojciec/humdesk/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text unchanged", in: "Hôpital de Goma", want: "Hôpital de Goma"},
		{name: "ansi colors stripped", in: "\x1b[1;31mALERT\x1b[0m", want: "ALERT"},
		{name: "osc hyperlink stripped", in: "\x1b]8;;https://x.test\x07link\x1b]8;;\x07", want: "link"},
		{name: "crlf normalized", in: "a\r\nb", want: "a\nb"},
		{name: "tabs and newlines kept", in: "a\tb\nc", want: "a\tb\nc"},
		{name: "other control characters dropped", in: "a\x00b\x07c\x7fd", want: "abcd"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bt.Sanitize(tt.in))
		})
	}
}
