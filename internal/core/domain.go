package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income     EntryType = "income"
	Expense    EntryType = "expense"
	Investment EntryType = "investment"
)

// DateLayout is the calendar date format used on input and in snapshots.
const DateLayout = "2006-01-02"

type (
	EntryType string

	Date struct {
		time.Time
	}

	// Entry is a single recorded financial event.
	Entry struct {
		ID          int64     `json:"id"`
		Type        EntryType `json:"type"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Date        Date      `json:"date"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid entry type")
	ErrEmptyDescription = errors.New("empty description")
	ErrMissingDate      = errors.New("missing date")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// EntryTypes returns the closed set of entry types.
func EntryTypes() []EntryType {
	return []EntryType{Income, Expense, Investment}
}

// ParseEntryType accepts any casing and surrounding whitespace.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// IsValid returns true if t is one of the known entry types.
func (t EntryType) IsValid() bool {
	switch t {
	case Income, Expense, Investment:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (t EntryType) String() string {
	return string(t)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Empty input yields ErrMissingDate.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrMissingDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day in the local time zone.
func Today() Date {
	y, m, d := time.Now().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Compare orders dates by calendar day.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts YYYY-MM-DD and, for older snapshots, RFC 3339
// timestamps truncated to their calendar day.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("date %q: %w", s, ErrInvalidDate)
	}
	y, m, day := t.Date()
	*d = NewDate(y, int(m), day)
	return nil
}

// Period returns the calendar month the entry falls into.
func (e Entry) Period() Period {
	return PeriodOf(e.Date)
}

func (e Entry) Validate() error {
	if !e.Type.IsValid() {
		return ErrInvalidType
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
