package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/humdesk"
	"github.com/fwojciec/humdesk/goldmark"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders an assistant answer as markdown while it
// streams. Text up to the last paragraph break outside a code fence is
// rendered once per width and cached; only the tail is re-rendered as
// tokens arrive.
type AssistantTextBlock struct {
	content strings.Builder
	theme   humdesk.Theme

	stable      string
	stableCache map[int]string
}

// NewAssistantTextBlock creates an empty block for a streaming answer.
func NewAssistantTextBlock(theme humdesk.Theme) *AssistantTextBlock {
	return &AssistantTextBlock{
		theme:       theme,
		stableCache: make(map[int]string),
	}
}

// Append adds a streamed fragment.
func (b *AssistantTextBlock) Append(token string) {
	b.content.WriteString(Sanitize(token))
	b.advance()
}

// Text returns the raw markdown received so far.
func (b *AssistantTextBlock) Text() string {
	return b.content.String()
}

func (b *AssistantTextBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantTextBlock) View(width int) string {
	head := b.renderStable(width)
	tail := b.tail()
	if hasUnclosedFence(tail) {
		tail += "\n```"
	}
	if strings.TrimSpace(tail) == "" {
		return head
	}
	rendered := goldmark.Render(tail, width, b.theme)
	if strings.TrimSpace(rendered) == "" {
		return head
	}
	if head == "" {
		return rendered
	}
	return strings.TrimRight(head, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

// advance moves the stable prefix to the last "\n\n" whose prefix has every
// fence closed.
func (b *AssistantTextBlock) advance() {
	raw := b.content.String()
	end := len(raw)
	for {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		if prefix := raw[:idx]; !hasUnclosedFence(prefix) {
			if prefix != b.stable {
				b.stable = prefix
				clear(b.stableCache)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderStable(width int) string {
	if width <= 0 || b.stable == "" {
		return ""
	}
	if cached, ok := b.stableCache[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.stable, width, b.theme)
	b.stableCache[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) tail() string {
	raw := b.content.String()
	if b.stable == "" {
		return raw
	}
	return strings.TrimPrefix(raw, b.stable+"\n\n")
}

// hasUnclosedFence reports an odd number of "```" markers. Backticks inside
// inline code spans are not distinguished.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
