package memory

import (
	"context"
	"errors"
	"testing"

	"cashbook/internal/core"
	"cashbook/internal/snapshot"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New("")

	got, err := s.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty load, got %v err=%v", got, err)
	}

	entries := []core.Entry{
		{ID: 1, Type: core.Expense, Description: "t", Amount: core.Cents(123), Category: "A", Date: core.NewDate(2025, 1, 1)},
	}
	if err := s.Save(ctx, entries); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil || len(got) != 1 || got[0] != entries[0] {
		t.Fatalf("unexpected load: %v err=%v", got, err)
	}
	if s.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", s.Saves())
	}

	// Save is a full replace.
	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if string(s.Raw()) != "[]" {
		t.Fatalf("expected empty snapshot, got %s", s.Raw())
	}
}

func TestMemoryStoreMalformed(t *testing.T) {
	s := New("transactions")
	s.SetRaw([]byte("{oops"))
	if _, err := s.Load(context.Background()); !errors.Is(err, snapshot.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestNewSeeded(t *testing.T) {
	s, err := NewSeeded("k", []core.Entry{
		{ID: 7, Type: core.Income, Description: "x", Amount: core.Cents(1), Date: core.NewDate(2025, 2, 2)},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if s.Saves() != 0 {
		t.Fatalf("seeding should not count as a save")
	}
	got, _ := s.Load(context.Background())
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("unexpected seeded entries %v", got)
	}
}
