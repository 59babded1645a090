package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/report"
)

// User facing messages
const (
	msgAdded        = "Transaction added."
	msgDeleted      = "Transaction deleted."
	msgCleared      = "All transactions have been cleared."
	msgNothingClear = "No data to clear."
	msgConfirmClear = "Clearing needs confirmation, pass confirm=true."
	msgBadBody      = "Invalid request body."
	msgBadID        = "Invalid transaction id."
	msgSaveFailed   = "Failed to save changes."
)

// cardsView is the summary card text, already formatted for display.
type cardsView struct {
	Balance    string `json:"balance"`
	Income     string `json:"income"`
	Expenses   string `json:"expenses"`
	Investment string `json:"investment"`
}

type dashboardResponse struct {
	report.Dashboard
	Currency string    `json:"currency"`
	Cards    cardsView `json:"cards"`
}

type entriesResponse struct {
	Filters report.Filters `json:"filters"`
	Entries []core.Entry   `json:"entries"`
}

type messageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			checks["storage"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	} else {
		checks["storage"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.activeClients()}
	checks["security"] = s.metrics.snapshot()

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"entries":   s.ledger.Len(),
		"checks":    checks,
	}).Write(w)
}

// handleDashboard returns every view for the selected filters
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.ledger.Dashboard(ParseFilters(r.URL.Query()))
	NewResponse().JSON(dashboardResponse{
		Dashboard: d,
		Currency:  s.money.Code(),
		Cards: cardsView{
			Balance:    s.money.Format(d.Summary.Balance),
			Income:     s.money.Format(d.Summary.IncomeTotal),
			Expenses:   s.money.Format(d.Summary.ExpenseTotal),
			Investment: s.money.Format(d.Summary.InvestmentTotal),
		},
	}).Write(w)
}

// handleListEntries returns the filtered entry table, newest first
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	f := ParseFilters(r.URL.Query())
	NewResponse().JSON(entriesResponse{
		Filters: f,
		Entries: s.ledger.Entries(f.Category, f.Period),
	}).Write(w)
}

// handleCreateEntry validates and stores a submitted entry
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	draft, err := ParseDraft(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Unreadable entry submission", log.FieldError, err)
		BadRequestError(msgBadBody).Write(w)
		return
	}

	e, err := s.ledger.Add(ctx, draft)
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		UnprocessableEntityError(verr.Field, verr.Reason()).Write(w)
		return
	case err != nil:
		logger.ErrorContext(ctx, "Entry save failed", log.FieldError, err, log.FieldErrorType, log.ErrorTypeStorage)
		InternalServerError(msgSaveFailed).Write(w)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		TriggerLedgerChanged(s.ledger.Len()).
		TriggerFormReset().
		TriggerSuccessNotification(msgAdded).
		JSON(e).
		Write(w)
}

// handleDeleteEntry removes an entry; unknown ids succeed
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseEntryID(r.PathValue("id"))
	if err != nil {
		BadRequestError(msgBadID).Write(w)
		return
	}

	removed, err := s.ledger.Remove(ctx, id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Entry delete failed", log.FieldEntryID, id, log.FieldError, err)
		InternalServerError(msgSaveFailed).Write(w)
		return
	}

	resp := NewResponse().Status(http.StatusNoContent)
	if removed {
		resp.TriggerLedgerChanged(s.ledger.Len()).TriggerSuccessNotification(msgDeleted)
	}
	resp.Write(w)
}

// handleClearEntries empties the ledger when confirm=true
func (s *Server) handleClearEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	confirmed := ParseConfirm(r.URL.Query())

	var cleared int
	err := s.ledger.Clear(ctx, func(count int) bool {
		cleared = count
		return confirmed
	})
	switch {
	case errors.Is(err, ledger.ErrNothingToClear):
		NewResponse().
			TriggerInfoNotification(msgNothingClear).
			JSON(messageResponse{Message: msgNothingClear}).
			Write(w)
	case errors.Is(err, ledger.ErrClearDeclined):
		BadRequestError(msgConfirmClear).Write(w)
	case err != nil:
		log.FromContext(ctx).ErrorContext(ctx, "Ledger clear failed", log.FieldError, err)
		InternalServerError(msgSaveFailed).Write(w)
	default:
		NewResponse().
			TriggerLedgerChanged(0).
			TriggerSuccessNotification(msgCleared).
			JSON(messageResponse{Message: msgCleared, Count: cleared}).
			Write(w)
	}
}
