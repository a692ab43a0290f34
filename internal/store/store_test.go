package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/robby/ghboards/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend is an in-memory Backend for exercising Store rules.
type memoryBackend struct {
	users   map[string][]domain.PinnedProject
	loadErr error
	saveErr error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{users: map[string][]domain.PinnedProject{}}
}

func (m *memoryBackend) Load(_ context.Context, user string) ([]domain.PinnedProject, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.users[user], nil
}

func (m *memoryBackend) Save(_ context.Context, user string, projects []domain.PinnedProject) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users[user] = projects
	return nil
}

func (m *memoryBackend) Close() error { return nil }

func createTestStore(t *testing.T, driver string) *Store {
	t.Helper()
	dir := t.TempDir()

	var path string
	switch driver {
	case DriverFile:
		path = filepath.Join(dir, "pins.json")
	case DriverSQLite:
		path = filepath.Join(dir, "pins.db")
	}

	s, err := Open(context.Background(), driver, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func projectURL(owner string, number int) string {
	return fmt.Sprintf("https://github.com/orgs/%s/projects/%d", owner, number)
}

func TestStore_Drivers(t *testing.T) {
	for _, driver := range []string{DriverFile, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			s := createTestStore(t, driver)

			pins, err := s.List(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, pins)

			_, err = s.Add(ctx, "alice", "https://github.com/users/alice/projects/1")
			require.NoError(t, err)
			pins, err = s.Add(ctx, "alice", projectURL("acme", 3))
			require.NoError(t, err)
			require.Len(t, pins, 2)
			assert.Equal(t, "acme", pins[0].Owner, "newest pin first")

			listed, err := s.List(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, pins, listed)

			// Users are isolated
			other, err := s.List(ctx, "bob")
			require.NoError(t, err)
			assert.Empty(t, other)

			pins, err = s.Remove(ctx, "alice", domain.PinnedProject{Owner: "ACME", Number: 3, OwnerType: domain.OwnerTypeOrg})
			require.NoError(t, err)
			require.Len(t, pins, 1)
			assert.Equal(t, "alice", pins[0].Owner)

			listed, err = s.List(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, pins, listed)
		})
	}
}

func TestStore_AddMovesDuplicateToFront(t *testing.T) {
	ctx := context.Background()
	s := New(newMemoryBackend())

	_, err := s.Add(ctx, "alice", projectURL("Acme", 3))
	require.NoError(t, err)
	_, err = s.Add(ctx, "alice", projectURL("other", 1))
	require.NoError(t, err)

	pins, err := s.Add(ctx, "alice", projectURL("acme", 3))
	require.NoError(t, err)

	require.Len(t, pins, 2)
	assert.Equal(t, domain.PinnedProject{Owner: "acme", Number: 3, OwnerType: domain.OwnerTypeOrg}, pins[0])
	assert.Equal(t, "other", pins[1].Owner)
}

func TestStore_AddCapsList(t *testing.T) {
	ctx := context.Background()
	s := New(newMemoryBackend())

	for i := 1; i <= MaxPinnedProjects+2; i++ {
		_, err := s.Add(ctx, "alice", projectURL("acme", i))
		require.NoError(t, err)
	}

	pins, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, pins, MaxPinnedProjects)
	assert.Equal(t, MaxPinnedProjects+2, pins[0].Number)
	assert.Equal(t, 3, pins[len(pins)-1].Number, "oldest pins are dropped")
}

func TestStore_AddInvalidURL(t *testing.T) {
	backend := newMemoryBackend()
	s := New(backend)

	_, err := s.Add(context.Background(), "alice", "https://gitlab.com/users/alice/projects/7")

	assert.ErrorIs(t, err, domain.ErrUnsupportedHost)
	assert.Empty(t, backend.users)
}

func TestStore_ListNormalizesStoredData(t *testing.T) {
	backend := newMemoryBackend()
	backend.users["alice"] = []domain.PinnedProject{
		{Owner: "Acme", Number: 3, OwnerType: domain.OwnerTypeOrg},
		{Owner: "acme", Number: 3, OwnerType: domain.OwnerTypeOrg},
		{Owner: "", Number: 1, OwnerType: domain.OwnerTypeUser},
	}

	pins, err := New(backend).List(context.Background(), "alice")

	require.NoError(t, err)
	assert.Len(t, pins, 1)
}

func TestStore_RemoveInvalidProject(t *testing.T) {
	_, err := New(newMemoryBackend()).Remove(context.Background(), "alice", domain.PinnedProject{Owner: "acme"})

	assert.Error(t, err)
}

func TestStore_UserRequired(t *testing.T) {
	s := New(newMemoryBackend())

	_, err := s.List(context.Background(), "")
	assert.ErrorIs(t, err, ErrUserRequired)

	_, err = s.Add(context.Background(), "", projectURL("acme", 1))
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestStore_BackendErrors(t *testing.T) {
	boom := errors.New("disk on fire")

	backend := newMemoryBackend()
	backend.saveErr = boom
	_, err := New(backend).Add(context.Background(), "alice", projectURL("acme", 1))
	assert.ErrorIs(t, err, boom)

	backend = newMemoryBackend()
	backend.loadErr = boom
	_, err = New(backend).List(context.Background(), "alice")
	assert.ErrorIs(t, err, boom)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "")

	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestFileBackend_AcceptsHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.json")
	content := `{
  // pinned by hand
  "users": {
    "alice": [
      {"owner": "acme", "number": 3, "ownerType": "org"},
    ],
  },
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pins, err := New(NewFileBackend(path)).List(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []domain.PinnedProject{{Owner: "acme", Number: 3, OwnerType: domain.OwnerTypeOrg}}, pins)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": [`), 0o644))

	_, err := NewFileBackend(path).Load(context.Background(), "alice")

	assert.Error(t, err)
}

func TestFileBackend_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "pins.json")
	backend := NewFileBackend(path)

	require.NoError(t, backend.Save(context.Background(), "alice", nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	pins, err := backend.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, pins)
}
