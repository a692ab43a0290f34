// Package boards aggregates pinned project boards.
package boards

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/robby/ghboards/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many boards are fetched at once.
const DefaultConcurrency = 4

// Fetcher fetches a single board. *gh.Client implements it.
type Fetcher interface {
	FetchBoard(ctx context.Context, owner string, number int) (*domain.Board, error)
}

// Service fetches boards and summarizes pinned sets of them.
type Service struct {
	concurrency int
	logger      *log.Logger
}

// NewService creates a Service. A concurrency below 1 uses DefaultConcurrency;
// a nil logger discards output.
func NewService(concurrency int, logger *log.Logger) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{concurrency: concurrency, logger: logger}
}

// Board fetches one board.
func (s *Service) Board(ctx context.Context, fetcher Fetcher, owner string, number int) (*domain.Board, error) {
	return fetcher.FetchBoard(ctx, owner, number)
}

// Summaries fetches every pinned board concurrently and returns one card per
// pin, in pin order. A board that fails to load becomes a placeholder card
// carrying the error; it never fails the others.
func (s *Service) Summaries(ctx context.Context, fetcher Fetcher, pins []domain.PinnedProject) []domain.BoardCard {
	cards := make([]domain.BoardCard, len(pins))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, pin := range pins {
		g.Go(func() error {
			board, err := fetcher.FetchBoard(ctx, pin.Owner, pin.Number)
			if err != nil {
				s.logger.Printf("failed to fetch board %s: %v", pin.Key(), err)
				cards[i] = Placeholder(pin, err)
				return nil
			}
			cards[i] = Summarize(board)
			return nil
		})
	}

	_ = g.Wait()
	return cards
}

// Summarize builds the card for a fetched board.
func Summarize(board *domain.Board) domain.BoardCard {
	return domain.BoardCard{
		Owner:         board.Owner,
		Number:        board.Number,
		OwnerType:     board.OwnerType,
		Title:         board.Title,
		URL:           board.URL,
		Stats:         board.Stats,
		LastUpdatedAt: domain.LatestUpdate(board.Items),
		HasAccess:     true,
	}
}

// Placeholder builds the card for a board that could not be fetched.
func Placeholder(pin domain.PinnedProject, err error) domain.BoardCard {
	message := "Unable to fetch board data."
	if err != nil && err.Error() != "" {
		message = err.Error()
	}

	return domain.BoardCard{
		Owner:     pin.Owner,
		Number:    pin.Number,
		OwnerType: pin.OwnerType,
		Title:     fmt.Sprintf("%s / Project %d", pin.Owner, pin.Number),
		URL:       pin.URL(),
		Stats:     domain.Stats{},
		HasAccess: false,
		Error:     &message,
	}
}
