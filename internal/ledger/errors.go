package ledger

import (
	"errors"
	"fmt"

	"cashbook/internal/core"
)

var (
	// ErrNothingToClear is returned by Clear on an empty store. It is an
	// informational outcome, not a failure.
	ErrNothingToClear = errors.New("no data to clear")

	// ErrClearDeclined is returned by Clear when the caller does not
	// confirm the operation.
	ErrClearDeclined = errors.New("clear not confirmed")
)

// ValidationError rejects a draft entry. Err is one of the core
// validation sentinels.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Reason returns a message suitable for showing next to the form.
func (e *ValidationError) Reason() string {
	switch {
	case errors.Is(e.Err, core.ErrInvalidType):
		return "type must be income, expense or investment"
	case errors.Is(e.Err, core.ErrEmptyDescription):
		return "description is required"
	case errors.Is(e.Err, core.ErrMissingDate):
		return "date is required"
	case errors.Is(e.Err, core.ErrInvalidDate):
		return "date must be in YYYY-MM-DD format"
	case errors.Is(e.Err, core.ErrInvalidAmount):
		return "amount must be a positive number"
	default:
		return e.Err.Error()
	}
}

// IsInformational reports whether err is a Clear outcome that needs no
// error treatment.
func IsInformational(err error) bool {
	return errors.Is(err, ErrNothingToClear) || errors.Is(err, ErrClearDeclined)
}
