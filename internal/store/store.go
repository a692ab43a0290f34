// Package store persists the project boards each user has pinned.
// It keeps the pin list rules (validation, de-duplication, ordering and the
// size cap) in one place, on top of interchangeable storage backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robby/ghboards/internal/domain"
)

var (
	// ErrUserRequired indicates an empty user key.
	ErrUserRequired = errors.New("user is required")
	// ErrUnknownDriver indicates a store driver that is not supported.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// MaxPinnedProjects caps the number of boards a user can pin.
const MaxPinnedProjects = 10

// Supported drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Backend loads and saves the raw pin list of a user.
type Backend interface {
	Load(ctx context.Context, user string) ([]domain.PinnedProject, error)
	Save(ctx context.Context, user string, projects []domain.PinnedProject) error
	Close() error
}

// Store manages pinned projects per user.
// Read-modify-write cycles are serialized within the process.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

// New creates a Store on top of backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open creates a Store with the backend named by driver, rooted at path.
func Open(ctx context.Context, driver, path string, opts ...SQLiteOption) (*Store, error) {
	switch driver {
	case DriverFile:
		return New(NewFileBackend(path)), nil
	case DriverSQLite:
		backend, err := OpenSQLite(ctx, path, opts...)
		if err != nil {
			return nil, err
		}
		return New(backend), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// List returns the user's pinned projects, normalized.
func (s *Store) List(ctx context.Context, user string) ([]domain.PinnedProject, error) {
	if user == "" {
		return nil, ErrUserRequired
	}

	projects, err := s.backend.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load pinned projects: %w", err)
	}

	return domain.NormalizePinnedProjects(projects), nil
}

// Add parses rawURL and pins the board at the front of the user's list.
// A board that is already pinned moves to the front. The list is capped at
// MaxPinnedProjects, dropping the oldest pins.
func (s *Store) Add(ctx context.Context, user, rawURL string) ([]domain.PinnedProject, error) {
	project, err := domain.ParseProjectURL(rawURL)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, user, func(current []domain.PinnedProject) []domain.PinnedProject {
		next := make([]domain.PinnedProject, 0, len(current)+1)
		next = append(next, project)
		next = append(next, without(current, project.Key())...)
		if len(next) > MaxPinnedProjects {
			next = next[:MaxPinnedProjects]
		}
		return next
	})
}

// Remove unpins the board with the same identity key as project.
func (s *Store) Remove(ctx context.Context, user string, project domain.PinnedProject) ([]domain.PinnedProject, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}

	return s.update(ctx, user, func(current []domain.PinnedProject) []domain.PinnedProject {
		return without(current, project.Key())
	})
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) update(ctx context.Context, user string, fn func([]domain.PinnedProject) []domain.PinnedProject) ([]domain.PinnedProject, error) {
	if user == "" {
		return nil, ErrUserRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.backend.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to load pinned projects: %w", err)
	}

	next := fn(domain.NormalizePinnedProjects(current))

	if err := s.backend.Save(ctx, user, next); err != nil {
		return nil, fmt.Errorf("failed to save pinned projects: %w", err)
	}

	return next, nil
}

// without returns the projects whose identity key differs from key.
func without(projects []domain.PinnedProject, key string) []domain.PinnedProject {
	result := make([]domain.PinnedProject, 0, len(projects))
	for _, p := range projects {
		if p.Key() != key {
			result = append(result, p)
		}
	}
	return result
}
