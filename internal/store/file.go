package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/robby/ghboards/internal/domain"
	"github.com/tailscale/hujson"
)

// FileBackend keeps all users' pins in one JSON document keyed by user.
// The file may be edited by hand; comments and trailing commas are accepted.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend returns a backend stored at path. The file is created on
// first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

type fileDocument struct {
	Users map[string][]domain.PinnedProject `json:"users"`
}

func (b *FileBackend) read() (fileDocument, error) {
	doc := fileDocument{Users: map[string][]domain.PinnedProject{}}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", b.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return doc, fmt.Errorf("parse %s: %w", b.path, err)
	}
	if err := json.Unmarshal(standardized, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", b.path, err)
	}
	if doc.Users == nil {
		doc.Users = map[string][]domain.PinnedProject{}
	}

	return doc, nil
}

// Load returns the user's stored pins, or nil if none are stored.
func (b *FileBackend) Load(_ context.Context, user string) ([]domain.PinnedProject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, err
	}
	return doc.Users[user], nil
}

// Save replaces the user's pins and rewrites the file atomically.
func (b *FileBackend) Save(_ context.Context, user string, projects []domain.PinnedProject) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []domain.PinnedProject{}
	}
	doc.Users[user] = projects

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pins: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := atomic.WriteFile(b.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", b.path, err)
	}

	return nil
}

// Close is a no-op; the file is not held open.
func (b *FileBackend) Close() error {
	return nil
}
