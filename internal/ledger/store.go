// Package ledger owns the in-memory entry collection and its three
// mutations. Every successful mutation is followed by a full snapshot save.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/snapshot"
)

// Store is the single source of truth for ledger entries.
type Store struct {
	mu      sync.Mutex
	entries []core.Entry
	snap    snapshot.Store
	now     func() time.Time
	lastID  int64
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for recovery warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the snapshot from snap. A load failure or malformed
// snapshot is logged and the store starts empty.
func Open(ctx context.Context, snap snapshot.Store, opts ...Option) *Store {
	s := &Store{
		snap:   snap,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	entries, err := snap.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding unreadable snapshot, starting with an empty ledger", "error", err)
		entries = nil
	}
	s.entries = append([]core.Entry(nil), entries...)
	for _, e := range s.entries {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}

	s.logger.DebugContext(ctx, "Ledger opened", "entries", len(s.entries))
	return s
}

// Entries returns a copy of the entries in insertion order.
func (s *Store) Entries() []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Add validates d, assigns an id and persists the new snapshot. It
// returns the entry and the ledger size after the insert. A
// *ValidationError leaves the store unchanged.
func (s *Store) Add(ctx context.Context, d Draft) (core.Entry, int, error) {
	e, err := d.Parse()
	if err != nil {
		return core.Entry{}, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevLast := s.lastID
	e.ID = s.nextID()
	next := append(append(make([]core.Entry, 0, len(s.entries)+1), s.entries...), e)
	if err := s.snap.Save(ctx, next); err != nil {
		s.lastID = prevLast
		return core.Entry{}, 0, fmt.Errorf("save snapshot: %w", err)
	}
	s.entries = next
	return e, len(next), nil
}

// Remove deletes the entry with id and returns the remaining count. An
// unknown id is not an error; the snapshot is saved in both cases.
func (s *Store) Remove(ctx context.Context, id int64) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	removed := len(next) != len(s.entries)

	if err := s.snap.Save(ctx, next); err != nil {
		return false, 0, fmt.Errorf("save snapshot: %w", err)
	}
	s.entries = next
	return removed, len(next), nil
}

// Clear empties the store once confirm approves it. It returns
// ErrNothingToClear when there is nothing stored and ErrClearDeclined
// when confirm returns false. confirm receives the current entry count
// and runs without the lock held, so a slow prompt does not block readers.
func (s *Store) Clear(ctx context.Context, confirm func(count int) bool) error {
	s.mu.Lock()
	count := len(s.entries)
	s.mu.Unlock()

	if count == 0 {
		return ErrNothingToClear
	}
	if confirm == nil || !confirm(count) {
		return ErrClearDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Entries may have been removed while confirm was waiting.
	if len(s.entries) == 0 {
		return ErrNothingToClear
	}
	if err := s.snap.Save(ctx, []core.Entry{}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.entries = nil
	return nil
}

// nextID returns the creation time in milliseconds, moved past the last
// issued id when the clock has not advanced. Callers hold s.mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
