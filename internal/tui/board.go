package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"
	"github.com/robby/ghboards/internal/domain"
)

// Layout constants
const (
	statusColumnWidth = 14
	chromeLines       = 4 // header + stats + blank + footer
)

// openURL is swapped out in tests.
var openURL = browser.OpenURL

// openInBrowser opens url without blocking the update loop.
func openInBrowser(url string) tea.Cmd {
	return func() tea.Msg {
		_ = openURL(url)
		return nil
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)
)

// BoardModel shows the items of one board with pending and assigned filters.
type BoardModel struct {
	// Dependencies
	source Source
	ctx    context.Context

	// UI components
	keymap  KeyMap
	help    HelpModel
	spinner spinner.Model

	// Board state
	card    domain.BoardCard
	board   *domain.Board
	visible []int // Indices into board.Items that pass the filters
	cursor  int
	offset  int

	// View state
	width       int
	height      int
	showHelp    bool
	pendingOnly bool
	mineOnly    bool
	loading     bool
	err         string
}

// NewBoardModel creates a board view for card; items load in Init.
func NewBoardModel(card domain.BoardCard, source Source, ctx context.Context) BoardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return BoardModel{
		source:  source,
		ctx:     ctx,
		keymap:  DefaultKeyMap(),
		help:    NewHelpModel(DefaultKeyMap()),
		spinner: sp,
		card:    card,
		loading: true,
	}
}

// Init starts loading the board.
func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tea.WindowSize(),
		m.loadBoard(),
	)
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustScroll()
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.board = msg.board
		m.applyFilter()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m BoardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Back) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Back):
		return m, func() tea.Msg { return closeBoardMsg{} }

	case key.Matches(msg, m.keymap.Quit):
		return m, func() tea.Msg { return QuitMsg{} }

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true

	case key.Matches(msg, m.keymap.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.keymap.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keymap.Pending):
		m.pendingOnly = !m.pendingOnly
		m.applyFilter()

	case key.Matches(msg, m.keymap.Mine):
		m.mineOnly = !m.mineOnly
		m.applyFilter()

	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadBoard())

	case key.Matches(msg, m.keymap.Open):
		if item, ok := m.selectedItem(); ok {
			return m, openInBrowser(item.URL)
		}
		return m, openInBrowser(m.card.URL)

	case key.Matches(msg, m.keymap.Select):
		if item, ok := m.selectedItem(); ok {
			return m, func() tea.Msg { return openDetailMsg{item: item} }
		}
	}

	return m, nil
}

// View renders the board
func (m BoardModel) View() string {
	// Use sensible defaults if dimensions not yet set
	width := m.width
	if width == 0 {
		width = 80
	}

	sections := []string{m.renderHeader(width), m.renderStats(width), ""}

	switch {
	case m.showHelp:
		sections = append(sections, m.help.View(width))
	case m.err != "":
		sections = append(sections, ErrorStyle.Render("Error: "+m.err), DimStyle.Render("Press r to retry or esc to go back."))
	case m.board == nil:
		sections = append(sections, m.spinner.View()+" Loading board...")
	case len(m.visible) == 0:
		sections = append(sections, DimStyle.Render("No items match the current filters."))
	default:
		sections = append(sections, m.renderRows(width)...)
	}

	sections = append(sections, HelpStyle.Render(m.help.ShortView(width)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the board title on the left and filter state on the right
func (m BoardModel) renderHeader(width int) string {
	title := fmt.Sprintf("%s/%d - %s", m.card.Owner, m.card.Number, m.card.Title)
	if m.board != nil {
		title = fmt.Sprintf("%s/%d - %s", m.board.Owner, m.board.Number, m.board.Title)
	}

	var statusParts []string
	if m.loading && m.board != nil {
		statusParts = append(statusParts, m.spinner.View()+"loading")
	}
	if m.board != nil {
		statusParts = append(statusParts, fmt.Sprintf("%d/%d items", len(m.visible), len(m.board.Items)))
	}
	if m.pendingOnly {
		statusParts = append(statusParts, "pending")
	}
	if m.mineOnly {
		statusParts = append(statusParts, "@me")
	}
	status := strings.Join(statusParts, " | ")

	title = truncate.StringWithTail(title, uint(max(width-lipgloss.Width(status)-2, 10)), "…")
	padding := width - lipgloss.Width(title) - lipgloss.Width(status)
	if padding < 1 {
		padding = 1
	}

	return boardTitleStyle.Render(title) + strings.Repeat(" ", padding) + DimStyle.Render(status)
}

// renderStats renders the board-level counts
func (m BoardModel) renderStats(width int) string {
	if m.board == nil {
		return ""
	}
	stats := m.board.Stats
	line := fmt.Sprintf("%d total · %d pending · %d assigned to %s · %d done",
		stats.Total, stats.Pending, stats.AssignedToViewer, viewerLabel(m.board.ViewerLogin), stats.Done)
	return DimStyle.Render(truncate.StringWithTail(line, uint(width), "…"))
}

func viewerLabel(login string) string {
	if login == "" {
		return "you"
	}
	return "@" + login
}

// renderRows renders the visible window of filtered items
func (m BoardModel) renderRows(width int) []string {
	end := m.offset + m.pageSize()
	if end > len(m.visible) {
		end = len(m.visible)
	}

	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		item := m.board.Items[m.visible[i]]
		rows = append(rows, formatItemRow(item, width, i == m.cursor))
	}
	return rows
}

// formatItemRow formats one item: pending marker, status, title and
// assignees, truncated to width.
func formatItemRow(item domain.BoardItem, width int, selected bool) string {
	marker := "  "
	if item.IsPending {
		marker = PendingStyle.Render("●") + " "
	}

	status := truncate.StringWithTail(item.Status, statusColumnWidth, "…")
	status = statusStyle(item).Render(status + strings.Repeat(" ", statusColumnWidth-lipgloss.Width(status)))

	suffix := assigneeLogins(item.Assignees)
	if item.ContentType == domain.ContentTypeDraft {
		suffix = "(draft)"
	}

	prefix := "  "
	if selected {
		prefix = "> "
	}

	// prefix + marker + status + gap
	available := width - 2 - 2 - statusColumnWidth - 1
	if suffix != "" {
		available -= lipgloss.Width(suffix) + 1
	}
	if available < 5 {
		available = 5
	}

	title := truncate.StringWithTail(item.Title, uint(available), "…")
	if selected {
		title = selectedRowStyle.Render(title)
	} else {
		title = NormalItemStyle.Render(title)
	}

	row := prefix + marker + status + " " + title
	if suffix != "" {
		padding := width - lipgloss.Width(row) - lipgloss.Width(suffix)
		if padding < 1 {
			padding = 1
		}
		row += strings.Repeat(" ", padding) + DimStyle.Render(suffix)
	}
	return row
}

func assigneeLogins(assignees []domain.Assignee) string {
	logins := make([]string, len(assignees))
	for i, a := range assignees {
		logins[i] = "@" + a.Login
	}
	return strings.Join(logins, ",")
}

// applyFilter recomputes the visible items from the toggles
func (m *BoardModel) applyFilter() {
	m.visible = nil
	if m.board == nil {
		return
	}

	m.visible = make([]int, 0, len(m.board.Items))
	for i, item := range m.board.Items {
		if m.pendingOnly && !item.IsPending {
			continue
		}
		if m.mineOnly && !item.IsAssignedToViewer {
			continue
		}
		m.visible = append(m.visible, i)
	}

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScroll()
}

// moveSelection moves the cursor by delta, clamped to the visible items
func (m *BoardModel) moveSelection(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.adjustScroll()
}

// adjustScroll keeps the cursor inside the visible window
func (m *BoardModel) adjustScroll() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m BoardModel) pageSize() int {
	height := m.height
	if height == 0 {
		height = 24
	}
	if height-chromeLines < 1 {
		return 1
	}
	return height - chromeLines
}

func (m BoardModel) selectedItem() (domain.BoardItem, bool) {
	if m.board == nil || len(m.visible) == 0 {
		return domain.BoardItem{}, false
	}
	return m.board.Items[m.visible[m.cursor]], true
}

// loadBoard fetches the board in the background
func (m BoardModel) loadBoard() tea.Cmd {
	owner, number := m.card.Owner, m.card.Number
	return func() tea.Msg {
		board, err := m.source.Board(m.ctx, owner, number)
		return boardLoadedMsg{board: board, err: err}
	}
}
