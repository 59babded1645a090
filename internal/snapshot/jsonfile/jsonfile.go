// Package jsonfile persists the ledger snapshot as <dir>/<key>.json.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashbook/internal/core"
	"cashbook/internal/snapshot"
)

type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for load and save diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a store writing to dir/key.json. The directory is created
// on first save.
func New(dir, key string, opts ...Option) *Store {
	if key == "" {
		key = snapshot.DefaultKey
	}
	s := &Store{
		path:   filepath.Join(dir, key+".json"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the snapshot file. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) ([]core.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.DebugContext(ctx, "Snapshot file not found", "path", s.path)
		return []core.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return snapshot.Decode(data)
}

// Save writes the snapshot to a temporary file and renames it over the
// previous one, so readers see either the old or the new snapshot.
func (s *Store) Save(ctx context.Context, entries []core.Entry) error {
	data, err := snapshot.Encode(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "Snapshot saved", "path", s.path, "entries", len(entries))
	return nil
}
