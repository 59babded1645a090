package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashbook/internal/core"
	"cashbook/internal/snapshot"

	_ "modernc.org/sqlite"
)

const (
	selectSnapshot = `SELECT value FROM snapshots WHERE key = ?`
	upsertSnapshot = `INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// SQLiteRepository stores the ledger snapshot as one row of a key-value
// table.
type SQLiteRepository struct {
	db     *sql.DB
	key    string
	logger *slog.Logger
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithLogger sets the logger for save diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *SQLiteRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewSQLiteRepository(dbPath, key string, opts ...Option) (*SQLiteRepository, error) {
	if key == "" {
		key = snapshot.DefaultKey
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{db: db, key: key, logger: slog.Default()}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements snapshot.Loader
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Entry, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectSnapshot, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []core.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return snapshot.Decode([]byte(value))
}

// Save implements snapshot.Saver
func (r *SQLiteRepository) Save(ctx context.Context, entries []core.Entry) error {
	data, err := snapshot.Encode(entries)
	if err != nil {
		return err
	}
	if err := r.SaveRaw(ctx, data); err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "Snapshot saved to SQLite",
		"key", r.key,
		"entries", len(entries))
	return nil
}

// SaveRaw stores data under the repository key without encoding it.
func (r *SQLiteRepository) SaveRaw(ctx context.Context, data []byte) error {
	if _, err := r.db.ExecContext(ctx, upsertSnapshot, r.key, string(data)); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
