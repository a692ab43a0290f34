// Package tui provides Bubble Tea models for the pinned boards dashboard.
package tui

import "github.com/robby/ghboards/internal/domain"

// BoardSelectedMsg is emitted when the user opens a pinned board.
type BoardSelectedMsg struct {
	Card domain.BoardCard
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Internal messages for screen transitions and async loads.
type (
	summariesLoadedMsg struct {
		cards []domain.BoardCard
	}

	refreshSummariesMsg struct{}

	boardLoadedMsg struct {
		board *domain.Board
		err   error
	}

	closeBoardMsg struct{}

	openDetailMsg struct {
		item domain.BoardItem
	}

	closeDetailMsg struct{}
)
