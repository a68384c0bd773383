package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/humdesk"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Input is the message composer. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation. Exported for test access.
	Viewport viewport.Model

	chat       ChatFunc
	transcript *humdesk.Transcript
	theme      humdesk.Theme
	styles     Styles

	blocks []MessageBlock
	// reply is the answer of the running turn; nil until its first token.
	reply *AssistantTextBlock
	// pending is the submitted text of the running turn, restored into the
	// composer when the turn fails.
	pending string

	running bool
	cancel  context.CancelFunc
	tokenCh chan string
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a chat Model sending turns through chat. The transcript is
// rendered on the first window size message and updated by chat.
func New(chat ChatFunc, t *humdesk.Transcript, theme humdesk.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about a crisis, a document, a donor..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:      ti,
		chat:       chat,
		transcript: t,
		theme:      theme,
		styles:     NewStyles(theme),
	}
}

// Running returns whether a turn is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the error of the last failed turn, if any. Stopped turns are
// not errors.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TokenMsg:
		if m.reply == nil {
			m.reply = NewAssistantTextBlock(m.theme)
			m.blocks = append(m.blocks, m.reply)
		}
		m.reply.Append(msg.Token)
		m.refresh()
		if m.tokenCh != nil {
			return m, listenForToken(m.tokenCh, m.doneCh)
		}
		return m, nil

	case TurnDoneMsg:
		m = m.finishTurn(msg.Err)
		cmd := m.Input.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	gapHeight := 2
	vpHeight := max(msg.Height-inputHeight-statusHeight-gapHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.blocks = m.transcriptBlocks()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.refresh()

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running || !m.ready {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)
	}

	// Character keys go to the composer only; 'j' and 'k' are text here,
	// not scroll bindings.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil
	m.pending = text
	m.reply = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.tokenCh = make(chan string, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	return m, tea.Batch(
		startTurn(ctx, m.chat, m.transcript, text, m.tokenCh, m.doneCh),
		listenForToken(m.tokenCh, m.doneCh),
	)
}

// finishTurn rebuilds the conversation from the transcript, which the chat
// function has either extended or rolled back.
func (m Model) finishTurn(err error) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.tokenCh = nil
	m.doneCh = nil
	m.reply = nil

	m.blocks = m.transcriptBlocks()
	switch {
	case err == nil:
	case humdesk.IsCanceled(err):
		m.blocks = append(m.blocks, NewNoticeBlock("Stopped. The message was not sent.", m.styles))
		m.Input.SetValue(m.pending)
	default:
		m.err = err
		m.blocks = append(m.blocks, NewErrorBlock(err, m.styles))
		m.Input.SetValue(m.pending)
	}
	m.pending = ""
	m.refresh()
	return m
}

func (m Model) transcriptBlocks() []MessageBlock {
	blocks := make([]MessageBlock, 0, len(m.transcript.Messages))
	for _, msg := range m.transcript.Messages {
		switch msg.Role {
		case humdesk.RoleUser:
			blocks = append(blocks, NewUserMessageBlock(msg.Content, m.styles))
		case humdesk.RoleAssistant:
			b := NewAssistantTextBlock(m.theme)
			b.Append(msg.Content)
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func (m *Model) refresh() {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	m.Viewport.SetContent(b.String())
	m.Viewport.GotoBottom()
}

func (m Model) statusLine() string {
	return ansi.Truncate(m.status(), m.Viewport.Width, "…")
}

func (m Model) status() string {
	if m.err != nil {
		return m.styles.Error.Render(Sanitize(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.running {
		return m.styles.Muted.Render("Generating... Ctrl+C to stop")
	}
	hint := m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
	if title := m.transcript.Conversation.Title; title != "" {
		return m.styles.Accent.Render(Sanitize(title)) + " " + hint
	}
	return hint
}

// startTurn runs the chat turn in a goroutine and signals completion.
func startTurn(ctx context.Context, chat ChatFunc, t *humdesk.Transcript, text string, tokenCh chan<- string, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := chat(ctx, t, text, func(tok string) {
			select {
			case tokenCh <- tok:
			case <-ctx.Done():
			}
		})
		close(tokenCh)
		doneCh <- err
		return nil
	}
}

// listenForToken waits for the next token. When the channel closes it reads
// the turn's error from doneCh and returns TurnDoneMsg.
func listenForToken(ch <-chan string, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		tok, ok := <-ch
		if !ok {
			return TurnDoneMsg{Err: <-doneCh}
		}
		return TokenMsg{Token: tok}
	}
}
