package memory

import (
	"context"
	"sync"

	"cashbook/internal/core"
	"cashbook/internal/snapshot"
)

// Store keeps encoded snapshots in process memory, keyed like the
// persistent backends. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	key   string
	items map[string][]byte
	saves int
}

func New(key string) *Store {
	if key == "" {
		key = snapshot.DefaultKey
	}
	return &Store{key: key, items: map[string][]byte{}}
}

// NewSeeded returns a store whose snapshot already holds entries.
func NewSeeded(key string, entries []core.Entry) (*Store, error) {
	s := New(key)
	if err := s.Save(context.Background(), entries); err != nil {
		return nil, err
	}
	s.saves = 0
	return s, nil
}

// Load decodes the stored snapshot.
func (s *Store) Load(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	data := s.items[s.key]
	s.mu.Unlock()
	return snapshot.Decode(data)
}

// Save replaces the stored snapshot.
func (s *Store) Save(_ context.Context, entries []core.Entry) error {
	data, err := snapshot.Encode(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.key] = data
	s.saves++
	return nil
}

// Raw returns a copy of the encoded snapshot.
func (s *Store) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.items[s.key]...)
}

// SetRaw overwrites the stored bytes without validation.
func (s *Store) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.key] = append([]byte(nil), data...)
}

// Saves reports how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
