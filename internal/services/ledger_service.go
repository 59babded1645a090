package services

import (
	"context"
	"errors"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/report"
)

// Publisher announces ledger mutations to other processes.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev amqp.LedgerEvent) error
}

// LedgerService orchestrates ledger mutations and change events. The
// store is the source of truth; events are best effort.
type LedgerService struct {
	store     *ledger.Store
	publisher Publisher
	logger    *log.Logger
}

// NewLedgerService wires the store to an optional publisher. A nil
// publisher disables events.
func NewLedgerService(store *ledger.Store, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Add stores a new entry and publishes entry.added
func (s *LedgerService) Add(ctx context.Context, d ledger.Draft) (core.Entry, error) {
	e, count, err := s.store.Add(ctx, d)
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			s.logger.DebugContext(ctx, "Entry rejected",
				log.FieldOperation, log.OpAdd,
				"field", verr.Field,
				log.FieldErrorType, log.ErrorTypeValidation)
		} else {
			s.logger.ErrorContext(ctx, "Failed to add entry",
				log.NewFields().WithOperation(log.OpAdd).WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
		}
		return core.Entry{}, err
	}

	s.logger.InfoContext(ctx, "Entry added",
		log.NewFields().
			WithOperation(log.OpAdd).
			WithEntry(e.ID, e.Type.String(), e.Description, e.Amount.Cents, e.Category).
			ToSlice()...)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventEntryAdded, e.ID, count))
	return e, nil
}

// Remove deletes the entry with id. An unknown id succeeds without an event.
func (s *LedgerService) Remove(ctx context.Context, id int64) (bool, error) {
	removed, count, err := s.store.Remove(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove entry",
			log.NewFields().WithOperation(log.OpRemove).WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
		return false, err
	}
	if !removed {
		s.logger.DebugContext(ctx, "Remove for unknown entry", log.FieldEntryID, id)
		return false, nil
	}

	s.logger.InfoContext(ctx, "Entry removed", log.FieldOperation, log.OpRemove, log.FieldEntryID, id)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventEntryRemoved, id, count))
	return true, nil
}

// Clear empties the ledger once confirm approves it. The informational
// ledger.ErrNothingToClear and ledger.ErrClearDeclined are returned as is.
func (s *LedgerService) Clear(ctx context.Context, confirm func(count int) bool) error {
	var count int
	err := s.store.Clear(ctx, func(n int) bool {
		count = n
		return confirm != nil && confirm(n)
	})
	switch {
	case err == nil:
	case ledger.IsInformational(err):
		s.logger.InfoContext(ctx, "Clear skipped", log.FieldOperation, log.OpClear, "reason", err.Error())
		return err
	default:
		s.logger.ErrorContext(ctx, "Failed to clear ledger",
			log.NewFields().WithOperation(log.OpClear).WithErrorType(log.ErrorTypeStorage).WithError(err).ToSlice()...)
		return err
	}

	s.logger.InfoContext(ctx, "Ledger cleared",
		log.NewFields().WithOperation(log.OpClear).WithCount(count).ToSlice()...)
	s.publish(ctx, amqp.NewLedgerEvent(amqp.EventLedgerCleared, 0, 0))
	return nil
}

// Dashboard recomputes every view for the given filters
func (s *LedgerService) Dashboard(f report.Filters) report.Dashboard {
	return report.BuildDashboard(s.store.Entries(), f)
}

// Entries returns the filtered entry table, newest first
func (s *LedgerService) Entries(category, period string) []core.Entry {
	return report.ListEntries(s.store.Entries(), orAll(category), orAll(period))
}

// Summary returns the card values for period
func (s *LedgerService) Summary(period string) core.Summary {
	return report.Summarize(s.store.Entries(), orAll(period))
}

// Categories returns the expense breakdown for period, largest first
func (s *LedgerService) Categories(period string) []core.CategoryAmount {
	return report.SortCategories(report.GroupExpensesByCategory(s.store.Entries(), orAll(period)))
}

// Trend returns the per-period income and expense series
func (s *LedgerService) Trend() core.TimeSeries {
	return report.BuildTimeSeries(s.store.Entries())
}

// Options returns the selectable filter values
func (s *LedgerService) Options() report.Options {
	return report.FilterOptions(s.store.Entries())
}

// Len returns the number of stored entries
func (s *LedgerService) Len() int {
	return s.store.Len()
}

func (s *LedgerService) publish(ctx context.Context, ev amqp.LedgerEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "Event publishing disabled, skipping", log.FieldEvent, ev.Event)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		// The mutation is already persisted.
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.NewFields().WithOperation(log.OpPublish).WithErrorType(log.ErrorTypeNetwork).WithError(err).ToSlice()...)
	}
}

func orAll(filter string) string {
	if filter == "" {
		return report.All
	}
	return filter
}
