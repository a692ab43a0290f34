package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/ghboards/internal/domain"
)

// Source loads the data the dashboard displays.
type Source interface {
	// Summaries returns one card per pinned board, in pin order.
	Summaries(ctx context.Context) ([]domain.BoardCard, error)
	// Board fetches a single board with its items.
	Board(ctx context.Context, owner string, number int) (*domain.Board, error)
}

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenLoading AppScreen = iota
	ScreenCards
	ScreenBoard
	ScreenDetail
)

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates the flow from pinned boards -> board items -> item detail.
type AppModel struct {
	// Dependencies
	source Source
	ctx    context.Context

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	err           error
	loadingMsg    string

	// Cached models to preserve state across screen transitions
	cardsModel *CardsModel
	boardModel *BoardModel
}

// NewAppModel creates a new app model reading from source.
func NewAppModel(source Source, ctx context.Context) AppModel {
	return AppModel{
		source:        source,
		ctx:           ctx,
		currentScreen: ScreenLoading,
		loadingMsg:    "Loading pinned boards...",
	}
}

// Init initializes the app model.
func (m AppModel) Init() tea.Cmd {
	return m.loadSummaries()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case summariesLoadedMsg:
		if m.cardsModel == nil {
			cardsModel := NewCardsModel(msg.cards)
			m.cardsModel = &cardsModel
			m.currentScreen = ScreenCards
			m.currentModel = cardsModel
			return m, cardsModel.Init()
		}
		cmd := m.cardsModel.SetCards(msg.cards)
		if m.currentScreen == ScreenLoading || m.currentScreen == ScreenCards {
			m.currentScreen = ScreenCards
			m.currentModel = *m.cardsModel
		}
		return m, tea.Batch(cmd, tea.WindowSize())

	case refreshSummariesMsg:
		m.currentScreen = ScreenLoading
		m.currentModel = nil
		m.loadingMsg = "Refreshing pinned boards..."
		return m, m.loadSummaries()

	case BoardSelectedMsg:
		m.currentScreen = ScreenBoard
		boardModel := NewBoardModel(msg.Card, m.source, m.ctx)
		m.boardModel = &boardModel
		m.currentModel = boardModel
		return m, boardModel.Init()

	case closeBoardMsg:
		m.currentScreen = ScreenCards
		m.currentModel = *m.cardsModel
		m.boardModel = nil
		return m, tea.WindowSize()

	case boardLoadedMsg:
		// A load can finish after the user left the board screen
		if m.currentScreen != ScreenBoard {
			if m.boardModel != nil {
				updated, _ := m.boardModel.Update(msg)
				boardModel := updated.(BoardModel)
				m.boardModel = &boardModel
			}
			return m, nil
		}

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detailModel := NewDetailModel(msg.item)
		m.currentModel = detailModel
		return m, detailModel.Init()

	case closeDetailMsg:
		// Return to board from detail view
		m.currentScreen = ScreenBoard
		m.currentModel = *m.boardModel
		// Request window size to ensure proper rendering
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep cached models in sync with the active screen
		switch current := m.currentModel.(type) {
		case CardsModel:
			m.cardsModel = &current
		case BoardModel:
			m.boardModel = &current
		}
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	// Show error if present
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	// Delegate to current screen
	if m.currentModel != nil {
		return m.currentModel.View()
	}

	// Show loading state
	return m.loadingMsg + "\n\nPress Ctrl+C to quit"
}

// loadSummaries creates a command to aggregate the pinned boards.
func (m AppModel) loadSummaries() tea.Cmd {
	return func() tea.Msg {
		cards, err := m.source.Summaries(m.ctx)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load pinned boards: %w", err)}
		}
		return summariesLoadedMsg{cards: cards}
	}
}
