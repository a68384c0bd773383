package bubbletea

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/humdesk"
	"github.com/mattn/go-runewidth"
)

const (
	uploadsTick    = 100 * time.Millisecond
	maxNameWidth   = 32
	minBarWidth    = 10
	maxBarWidth    = 40
	uploadsPadding = 16 // cursor, gaps and the percentage column
)

var _ tea.Model = UploadsModel{}

type uploadsTickMsg struct{}

// UploadsModel shows one progress row per tracked upload. It quits once
// every row has settled. Ctrl+C cancels all pending uploads.
type UploadsModel struct {
	uploads *humdesk.Uploads
	styles  Styles
	bar     progress.Model

	tasks     []humdesk.Upload
	cursor    int
	width     int
	canceling bool
}

// NewUploads creates an UploadsModel over the tasks currently tracked by u.
func NewUploads(u *humdesk.Uploads, theme humdesk.Theme) UploadsModel {
	bar := progress.New(
		progress.WithSolidFill(fmt.Sprint(theme.Progress)),
		progress.WithoutPercentage(),
		progress.WithWidth(maxBarWidth),
	)
	return UploadsModel{
		uploads: u,
		styles:  NewStyles(theme),
		bar:     bar,
		tasks:   u.Tasks(),
	}
}

// Tasks returns the rows still shown, in start order.
func (m UploadsModel) Tasks() []humdesk.Upload { return slices.Clone(m.tasks) }

// Canceling reports whether the user asked to cancel every upload.
func (m UploadsModel) Canceling() bool { return m.canceling }

// Init implements tea.Model.
func (m UploadsModel) Init() tea.Cmd {
	return uploadsTickCmd()
}

// Update implements tea.Model.
func (m UploadsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-m.nameWidth()-uploadsPadding, minBarWidth), maxBarWidth)
		return m, nil

	case uploadsTickMsg:
		if m.settled() {
			return m, tea.Quit
		}
		return m, uploadsTickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m UploadsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if m.settled() {
			return m, tea.Quit
		}
		m.canceling = true
		m.uploads.CancelAll()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "x", "delete":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.uploads.Remove(m.tasks[m.cursor])
		m.tasks = slices.Delete(slices.Clone(m.tasks), m.cursor, m.cursor+1)
		m.cursor = min(m.cursor, max(len(m.tasks)-1, 0))
	case "p":
		m.uploads.Prune()
		m.tasks = slices.DeleteFunc(m.tasks, func(t humdesk.Upload) bool { return t.State().Settled() })
		m.cursor = min(m.cursor, max(len(m.tasks)-1, 0))
	}
	return m, nil
}

// View implements tea.Model.
func (m UploadsModel) View() string {
	if len(m.tasks) == 0 {
		return m.styles.Muted.Render("No uploads.") + "\n"
	}

	nameWidth := m.nameWidth()
	var b strings.Builder
	done := 0
	for i, t := range m.tasks {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Accent.Render("> ")
		}
		name := runewidth.FillRight(runewidth.Truncate(Sanitize(t.Name()), nameWidth, "…"), nameWidth)
		b.WriteString(marker + name + "  " + m.row(t) + "\n")
		if t.State() == humdesk.UploadSucceeded {
			done++
		}
	}

	b.WriteString("\n")
	summary := fmt.Sprintf("%d/%d uploaded", done, len(m.tasks))
	switch {
	case m.canceling:
		b.WriteString(m.styles.Muted.Render(summary + " · canceling..."))
	case m.settled():
		b.WriteString(m.styles.Muted.Render(summary))
	default:
		b.WriteString(m.styles.Muted.Render(summary + " · ↑/↓ select · x remove · p prune · Ctrl+C cancel all"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m UploadsModel) row(t humdesk.Upload) string {
	switch t.State() {
	case humdesk.UploadSucceeded:
		return m.styles.Success.Render("done")
	case humdesk.UploadAborted:
		return m.styles.Muted.Render("canceled")
	case humdesk.UploadFailed:
		_, err := t.Wait(context.Background())
		return m.styles.Error.Render(Sanitize(fmt.Sprintf("failed: %v", err)))
	}
	p := t.Progress()
	if p < 0 {
		return m.styles.Muted.Render("uploading...")
	}
	return m.bar.ViewAs(p) + m.styles.Progress.Render(fmt.Sprintf(" %3.0f%%", p*100))
}

func (m UploadsModel) nameWidth() int {
	w := 0
	for _, t := range m.tasks {
		w = max(w, runewidth.StringWidth(t.Name()))
	}
	return min(w, maxNameWidth)
}

func (m UploadsModel) settled() bool {
	for _, t := range m.tasks {
		if !t.State().Settled() {
			return false
		}
	}
	return true
}

func uploadsTickCmd() tea.Cmd {
	return tea.Tick(uploadsTick, func(time.Time) tea.Msg { return uploadsTickMsg{} })
}
