package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cashbook/internal/amqp"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/report"
	"cashbook/internal/snapshot/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []amqp.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, ev amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Event
	}
	return out
}

func newService(t *testing.T, pub Publisher) *LedgerService {
	t.Helper()
	store := ledger.Open(context.Background(), memory.New(""), ledger.WithLogger(log.Discard().Slog()))
	return NewLedgerService(store, pub, log.Discard())
}

func draft(typ, desc, amount, cat, date string) ledger.Draft {
	return ledger.Draft{Type: typ, Description: desc, Amount: amount, Category: cat, Date: date}
}

func TestLedgerService_PublishesMutations(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	e, err := svc.Add(ctx, draft("income", "Salary", "1000", "Job", "2025-10-01"))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := svc.Add(ctx, draft("expense", "Rent", "500", "Home", "2025-10-02")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if removed, err := svc.Remove(ctx, e.ID); err != nil || !removed {
		t.Fatalf("Remove() = %v, %v", removed, err)
	}
	if err := svc.Clear(ctx, func(int) bool { return true }); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	want := []string{amqp.EventEntryAdded, amqp.EventEntryAdded, amqp.EventEntryRemoved, amqp.EventLedgerCleared}
	got := pub.names()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}

	if pub.events[0].EntryID != e.ID || pub.events[1].Count != 2 || pub.events[2].Count != 1 {
		t.Errorf("unexpected event payloads: %+v", pub.events)
	}
}

func TestLedgerService_ConcurrentAddsPublishDistinctCounts(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(ctx, draft("expense", "Chai", "1", "Food", "2025-10-01")); err != nil {
				t.Errorf("Add() error = %v", err)
			}
		}()
	}
	wg.Wait()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	seen := make(map[int]bool, n)
	for _, ev := range pub.events {
		if ev.Count < 1 || ev.Count > n || seen[ev.Count] {
			t.Fatalf("count %d repeated or out of range in %+v", ev.Count, pub.events)
		}
		seen[ev.Count] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct counts, want %d", len(seen), n)
	}
}

func TestLedgerService_ClearEventAndCount(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, pub)
	for i := 0; i < 2; i++ {
		if _, err := svc.Add(ctx, draft("income", "Pay", "10", "", "2025-10-01")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	var asked int
	if err := svc.Clear(ctx, func(n int) bool { asked = n; return true }); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if asked != 2 {
		t.Errorf("confirm count = %d, want 2", asked)
	}
	if err := svc.Clear(ctx, nil); !errors.Is(err, ledger.ErrNothingToClear) {
		t.Fatalf("Clear() empty = %v", err)
	}
}

func TestLedgerService_NoEventWithoutChange(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newService(t, pub)

	if _, err := svc.Add(ctx, draft("expense", "Bad", "0", "", "2025-10-01")); err == nil {
		t.Fatal("Add() should reject a zero amount")
	}
	if removed, err := svc.Remove(ctx, 42); err != nil || removed {
		t.Fatalf("Remove() unknown = %v, %v", removed, err)
	}
	if err := svc.Clear(ctx, func(int) bool { return true }); !errors.Is(err, ledger.ErrNothingToClear) {
		t.Fatalf("Clear() empty = %v", err)
	}
	if len(pub.names()) != 0 {
		t.Errorf("unexpected events %v", pub.names())
	}
}

func TestLedgerService_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newService(t, pub)

	if _, err := svc.Add(context.Background(), draft("income", "Pay", "10", "", "2025-10-01")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if svc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", svc.Len())
	}
}

func TestLedgerService_NilPublisher(t *testing.T) {
	svc := newService(t, nil)
	if _, err := svc.Add(context.Background(), draft("income", "Pay", "10", "", "2025-10-01")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
}

func TestLedgerService_Views(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)
	for _, d := range []ledger.Draft{
		draft("income", "Salary", "1000", "Job", "2025-10-01"),
		draft("expense", "Groceries", "200", "Food", "2025-10-03"),
		draft("investment", "Index fund", "300", "Stocks", "2025-09-15"),
	} {
		if _, err := svc.Add(ctx, d); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	s := svc.Summary("")
	if s.Balance.Cents != 50000 || s.IncomeTotal.Cents != 100000 || s.ExpenseTotal.Cents != 20000 || s.InvestmentTotal.Cents != 30000 {
		t.Errorf("Summary() = %+v", s)
	}
	if oct := svc.Summary("Oct 2025"); oct.InvestmentTotal.Cents != 0 || oct.Balance.Cents != 50000 {
		t.Errorf("Summary(Oct 2025) = %+v", oct)
	}

	cats := svc.Categories("")
	if len(cats) != 1 || cats[0].Name != "Food" {
		t.Errorf("Categories() = %+v", cats)
	}

	trend := svc.Trend()
	if len(trend.Periods) != 2 || trend.Periods[0] != "Sep 2025" {
		t.Errorf("Trend() = %+v", trend)
	}

	if got := svc.Entries("Food", ""); len(got) != 1 || got[0].Description != "Groceries" {
		t.Errorf("Entries(Food) = %+v", got)
	}

	d := svc.Dashboard(report.Filters{Period: "Oct 2025"})
	if len(d.Entries) != 2 || d.Comparison.Income.Cents != 100000 {
		t.Errorf("Dashboard() = %+v", d)
	}
	if opts := svc.Options(); len(opts.Periods) != 2 || opts.Periods[0] != "Oct 2025" {
		t.Errorf("Options() = %+v", opts)
	}
}

