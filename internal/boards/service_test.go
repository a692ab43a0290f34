package boards

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robby/ghboards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFetcher serves boards from a map and fails for keys in errs.
type mockFetcher struct {
	mu       sync.Mutex
	boards   map[string]*domain.Board
	errs     map[string]error
	inFlight int32
	maxSeen  int32
	delay    time.Duration
}

func (m *mockFetcher) FetchBoard(_ context.Context, owner string, number int) (*domain.Board, error) {
	n := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)

	m.mu.Lock()
	if n > m.maxSeen {
		m.maxSeen = n
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	key := domain.PinnedProject{Owner: owner, Number: number}.Key()
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if board, ok := m.boards[key]; ok {
		return board, nil
	}
	return nil, errors.New("Project board not found or access denied.")
}

func createTestBoard(owner string, number int) *domain.Board {
	updated := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	items := []domain.BoardItem{
		{ID: "i1", StatusType: domain.StatusTodo, IsPending: true, UpdatedAt: &updated},
		{ID: "i2", StatusType: domain.StatusDone},
	}
	return &domain.Board{
		ID:        "PVT_" + owner,
		Title:     owner + " board",
		URL:       "https://github.com/orgs/" + owner + "/projects/1",
		Owner:     owner,
		Number:    number,
		OwnerType: domain.OwnerTypeOrg,
		Stats:     domain.ComputeStats(items),
		Items:     items,
	}
}

func TestSummaries_IsolatesFailures(t *testing.T) {
	fetcher := &mockFetcher{
		boards: map[string]*domain.Board{"acme#3": createTestBoard("acme", 3)},
		errs:   map[string]error{"broken#1": errors.New("Resource not accessible by integration")},
	}
	pins := []domain.PinnedProject{
		{Owner: "acme", Number: 3, OwnerType: domain.OwnerTypeOrg},
		{Owner: "broken", Number: 1, OwnerType: domain.OwnerTypeUser},
	}

	cards := NewService(2, nil).Summaries(context.Background(), fetcher, pins)

	require.Len(t, cards, 2)

	live := cards[0]
	assert.True(t, live.HasAccess)
	assert.Nil(t, live.Error)
	assert.Equal(t, "acme board", live.Title)
	assert.Equal(t, domain.Stats{Total: 2, Pending: 1, Done: 1}, live.Stats)
	require.NotNil(t, live.LastUpdatedAt)
	assert.Equal(t, time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC), *live.LastUpdatedAt)

	failed := cards[1]
	assert.False(t, failed.HasAccess)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "Resource not accessible by integration", *failed.Error)
	assert.Equal(t, "broken / Project 1", failed.Title)
	assert.Equal(t, "https://github.com/users/broken/projects/1", failed.URL)
	assert.Equal(t, domain.Stats{}, failed.Stats)
	assert.Nil(t, failed.LastUpdatedAt)
}

func TestSummaries_PreservesOrder(t *testing.T) {
	fetcher := &mockFetcher{boards: map[string]*domain.Board{}}
	var pins []domain.PinnedProject
	for i := 1; i <= 8; i++ {
		fetcher.boards[domain.PinnedProject{Owner: "acme", Number: i}.Key()] = createTestBoard("acme", i)
		pins = append(pins, domain.PinnedProject{Owner: "acme", Number: i, OwnerType: domain.OwnerTypeOrg})
	}

	cards := NewService(3, nil).Summaries(context.Background(), fetcher, pins)

	require.Len(t, cards, len(pins))
	for i, card := range cards {
		assert.Equal(t, pins[i].Number, card.Number)
	}
}

func TestSummaries_BoundsConcurrency(t *testing.T) {
	fetcher := &mockFetcher{boards: map[string]*domain.Board{}, delay: 10 * time.Millisecond}
	var pins []domain.PinnedProject
	for i := 1; i <= 10; i++ {
		pins = append(pins, domain.PinnedProject{Owner: "acme", Number: i, OwnerType: domain.OwnerTypeOrg})
	}

	cards := NewService(2, nil).Summaries(context.Background(), fetcher, pins)

	assert.Len(t, cards, 10)
	assert.LessOrEqual(t, fetcher.maxSeen, int32(2))
	for _, card := range cards {
		assert.False(t, card.HasAccess)
	}
}

func TestSummaries_Empty(t *testing.T) {
	cards := NewService(0, nil).Summaries(context.Background(), &mockFetcher{}, nil)

	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestPlaceholder_EmptyError(t *testing.T) {
	card := Placeholder(domain.PinnedProject{Owner: "acme", Number: 2, OwnerType: domain.OwnerTypeOrg}, errors.New(""))

	require.NotNil(t, card.Error)
	assert.Equal(t, "Unable to fetch board data.", *card.Error)
	assert.Equal(t, "https://github.com/orgs/acme/projects/2", card.URL)
}

func TestService_Board(t *testing.T) {
	fetcher := &mockFetcher{boards: map[string]*domain.Board{"acme#3": createTestBoard("acme", 3)}}

	board, err := NewService(1, nil).Board(context.Background(), fetcher, "ACME", 3)

	require.NoError(t, err)
	assert.Equal(t, "PVT_acme", board.ID)
}
