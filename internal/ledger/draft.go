package ledger

import (
	"strings"

	"cashbook/internal/core"
)

// Draft is a new entry as submitted, every field still a raw string.
type Draft struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// Parse validates the draft and returns the entry without an id.
func (d Draft) Parse() (core.Entry, error) {
	typ, err := core.ParseEntryType(d.Type)
	if err != nil {
		return core.Entry{}, &ValidationError{Field: "type", Err: err}
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		return core.Entry{}, &ValidationError{Field: "description", Err: core.ErrEmptyDescription}
	}

	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Entry{}, &ValidationError{Field: "date", Err: err}
	}

	amount, err := core.ParseAmount(d.Amount)
	if err != nil {
		return core.Entry{}, &ValidationError{Field: "amount", Err: err}
	}

	return core.Entry{
		Type:        typ,
		Description: description,
		Amount:      amount,
		Category:    strings.TrimSpace(d.Category),
		Date:        date,
	}, nil
}
