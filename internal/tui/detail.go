package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/robby/ghboards/internal/domain"
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(12)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)

// DetailModel shows the fields of a single board item
type DetailModel struct {
	item     domain.BoardItem
	keymap   KeyMap
	viewport viewport.Model

	width  int
	height int
}

// NewDetailModel creates a new detail view model
func NewDetailModel(item domain.BoardItem) DetailModel {
	vp := viewport.New(40, 10) // Will be resized in WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := DetailModel{
		item:     item,
		keymap:   DefaultKeyMap(),
		viewport: vp,
	}
	m.updateViewportContent()
	return m
}

// Init initializes the detail model
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4   // border + padding
		m.viewport.Height = msg.Height - 4 // border + footer
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Back):
			return m, func() tea.Msg { return closeDetailMsg{} }
		case key.Matches(msg, m.keymap.Quit):
			return m, func() tea.Msg { return QuitMsg{} }
		case key.Matches(msg, m.keymap.Open):
			return m, openInBrowser(m.item.URL)
		case key.Matches(msg, m.keymap.Down):
			m.viewport.LineDown(1)
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.LineUp(1)
			return m, nil
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the detail panel and footer
func (m DetailModel) View() string {
	footer := HelpStyle.Render("esc back • o open in browser • j/k scroll • q quit")
	return panelBorderStyle.Render(m.viewport.View()) + "\n" + footer
}

// updateViewportContent formats the item fields for viewport display
func (m *DetailModel) updateViewportContent() {
	wrapWidth := m.viewport.Width - 2
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(wordwrap.String(m.item.Title, wrapWidth)))
	b.WriteString("\n\n")

	for _, field := range m.fields() {
		b.WriteString(detailLabelStyle.Render(field[0]))
		b.WriteString(detailValueStyle.Render(wordwrap.String(field[1], wrapWidth-12)))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// fields lists the label/value pairs shown for the item
func (m DetailModel) fields() [][2]string {
	item := m.item
	fields := [][2]string{
		{"Status", item.Status},
		{"Type", contentLabel(item.ContentType)},
	}
	if item.RepoFullName != nil {
		fields = append(fields, [2]string{"Repository", *item.RepoFullName})
	}
	if item.State != nil {
		fields = append(fields, [2]string{"State", *item.State})
	}
	if len(item.Assignees) > 0 {
		fields = append(fields, [2]string{"Assignees", assigneeLogins(item.Assignees)})
	}
	if item.UpdatedAt != nil {
		fields = append(fields, [2]string{"Updated", formatTimeAgo(*item.UpdatedAt)})
	}

	pending := "no"
	if item.IsPending {
		pending = "yes"
	}
	fields = append(fields, [2]string{"Pending", pending}, [2]string{"URL", item.URL})
	return fields
}

func contentLabel(t domain.ContentType) string {
	switch t {
	case domain.ContentTypeIssue:
		return "Issue"
	case domain.ContentTypePullRequest:
		return "Pull request"
	case domain.ContentTypeDraft:
		return "Draft issue"
	default:
		return string(t)
	}
}

// formatTimeAgo converts a timestamp to relative time
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	case duration < 30*24*time.Hour:
		weeks := int(duration.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	case duration < 365*24*time.Hour:
		months := int(duration.Hours() / 24 / 30)
		if months == 1 {
			return "1mo ago"
		}
		return fmt.Sprintf("%dmo ago", months)
	default:
		years := int(duration.Hours() / 24 / 365)
		if years == 1 {
			return "1y ago"
		}
		return fmt.Sprintf("%dy ago", years)
	}
}
