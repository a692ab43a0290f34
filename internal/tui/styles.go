package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/robby/ghboards/internal/domain"
)

var (
	// TitleStyle is used for screen titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")). // Purple
			MarginBottom(1)

	// SelectedItemStyle is used for highlighted/selected items.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")). // Light purple
				Bold(true)

	// NormalItemStyle is used for non-selected items.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Dark gray
			MarginTop(1)

	// DimStyle is used for secondary text such as stats and assignees.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// PendingStyle marks items that still need work.
	PendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	// DoneStyle marks finished items.
	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green
)

// statusStyle picks the color for an item's status column.
func statusStyle(item domain.BoardItem) lipgloss.Style {
	switch {
	case item.StatusType == domain.StatusDone:
		return DoneStyle
	case item.IsPending:
		return PendingStyle
	default:
		return DimStyle
	}
}
