package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/robby/ghboards/internal/domain"
)

// cardItem represents a pinned board in the list.
type cardItem struct {
	card domain.BoardCard
}

func (i cardItem) FilterValue() string { return i.card.Title }

// cardItemDelegate renders a board as a title line plus a stats line.
type cardItemDelegate struct{}

func (d cardItemDelegate) Height() int                             { return 2 }
func (d cardItemDelegate) Spacing() int                            { return 1 }
func (d cardItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d cardItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(cardItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	title := truncate.StringWithTail(i.card.Title, uint(width), "…")
	detail := DimStyle.Render(truncate.StringWithTail(cardSummary(i.card), uint(width), "…"))
	if !i.card.HasAccess {
		detail = ErrorStyle.Render(truncate.StringWithTail(cardSummary(i.card), uint(width), "…"))
	}

	if index == m.Index() {
		fmt.Fprintf(w, "%s\n  %s", SelectedItemStyle.Render("> "+title), detail)
		return
	}
	fmt.Fprintf(w, "%s\n  %s", NormalItemStyle.Render("  "+title), detail)
}

// cardSummary renders the stats line of a card, or its error when the
// board could not be loaded.
func cardSummary(card domain.BoardCard) string {
	if !card.HasAccess {
		if card.Error != nil {
			return "⚠ " + *card.Error
		}
		return "⚠ Unable to fetch board data."
	}

	parts := []string{
		fmt.Sprintf("%d items", card.Stats.Total),
		fmt.Sprintf("%d pending", card.Stats.Pending),
		fmt.Sprintf("%d mine", card.Stats.AssignedToViewer),
		fmt.Sprintf("%d done", card.Stats.Done),
	}
	if card.LastUpdatedAt != nil {
		parts = append(parts, "updated "+formatTimeAgo(*card.LastUpdatedAt))
	}
	return strings.Join(parts, " · ")
}

// CardsModel lists the pinned boards with their stats.
type CardsModel struct {
	list   list.Model
	keymap KeyMap
}

// NewCardsModel creates the pinned boards list.
func NewCardsModel(cards []domain.BoardCard) CardsModel {
	// Start with a reasonable default - will be resized by WindowSizeMsg
	l := list.New(cardItems(cards), cardItemDelegate{}, 80, 20)
	l.Title = "Pinned Boards"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle
	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	l.Styles.HelpStyle = HelpStyle

	return CardsModel{
		list:   l,
		keymap: DefaultKeyMap(),
	}
}

func cardItems(cards []domain.BoardCard) []list.Item {
	items := make([]list.Item, len(cards))
	for i, card := range cards {
		items[i] = cardItem{card: card}
	}
	return items
}

// SetCards replaces the listed boards, keeping the selection when possible.
func (m *CardsModel) SetCards(cards []domain.BoardCard) tea.Cmd {
	idx := m.list.Index()
	cmd := m.list.SetItems(cardItems(cards))
	if idx < len(cards) {
		m.list.Select(idx)
	}
	return cmd
}

// Selected returns the highlighted board, if any.
func (m CardsModel) Selected() (domain.BoardCard, bool) {
	item, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return domain.BoardCard{}, false
	}
	return item.card, true
}

// Init initializes the model.
func (m CardsModel) Init() tea.Cmd {
	// Request window size on init to properly size the list
	return tea.WindowSize()
}

// Update handles messages.
func (m CardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, m.keymap.Select):
			if card, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return BoardSelectedMsg{Card: card}
				}
			}
			return m, nil
		case key.Matches(msg, m.keymap.Open):
			if card, ok := m.Selected(); ok {
				return m, openInBrowser(card.URL)
			}
			return m, nil
		case key.Matches(msg, m.keymap.Refresh):
			return m, func() tea.Msg {
				return refreshSummariesMsg{}
			}
		case key.Matches(msg, m.keymap.Quit):
			return m, func() tea.Msg {
				return QuitMsg{}
			}
		}

	case tea.WindowSizeMsg:
		// Leave room for the footer
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 3)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m CardsModel) View() string {
	if len(m.list.Items()) == 0 {
		return TitleStyle.Render("Pinned Boards") + "\n" +
			DimStyle.Render("No pinned boards. Add one with `ghboards pins add <url>`.") + "\n" +
			HelpStyle.Render("r refresh • q quit")
	}
	return m.list.View() + "\n" + HelpStyle.Render("enter view • o open • / filter • r refresh • q quit")
}
