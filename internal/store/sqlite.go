package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/robby/ghboards/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteBackend stores pins in the user_preferences table of a SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

type sqliteOptions struct {
	logger *log.Logger
}

// SQLiteOption configures OpenSQLite.
type SQLiteOption func(*sqliteOptions)

// WithMigrationLogger routes migration output to logger.
func WithMigrationLogger(logger *log.Logger) SQLiteOption {
	return func(o *sqliteOptions) {
		o.logger = logger
	}
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	o := sqliteOptions{logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, o.logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteBackend{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB, logger *log.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logger)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run goose migrations: %w", err)
	}
	return nil
}

// Load returns the user's stored pins, or nil if the user has no row.
func (b *SQLiteBackend) Load(ctx context.Context, user string) ([]domain.PinnedProject, error) {
	var raw string
	err := b.db.QueryRowContext(ctx,
		`SELECT pinned_projects FROM user_preferences WHERE user_id = ?`, user,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pinned projects: %w", err)
	}

	var projects []domain.PinnedProject
	if err := json.Unmarshal([]byte(raw), &projects); err != nil {
		return nil, fmt.Errorf("decode pinned projects: %w", err)
	}
	return projects, nil
}

// Save upserts the user's pins.
func (b *SQLiteBackend) Save(ctx context.Context, user string, projects []domain.PinnedProject) error {
	if projects == nil {
		projects = []domain.PinnedProject{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encode pinned projects: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, pinned_projects)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			pinned_projects = excluded.pinned_projects,
			updated_at = CURRENT_TIMESTAMP`,
		user, string(data),
	)
	if err != nil {
		return fmt.Errorf("save pinned projects: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
