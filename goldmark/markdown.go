// Package goldmark renders assistant replies, which are GitHub-flavored
// markdown, to ANSI-styled terminal output using goldmark for parsing and
// lipgloss for styling.
package goldmark

import "github.com/fwojciec/humdesk"

// defaultWidth is used when the caller has no terminal width yet.
const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// and tables keep their layout. Raw HTML is not rendered.
func Render(source string, width int, theme humdesk.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme).render([]byte(source), width)
}
