// Package core provides the ledger domain types.
//
// This file contains Money, a fixed two-decimal amount held as integer
// cents, and the parsing of user supplied amount strings.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). Summing cents keeps totals
// exact; conversion to a decimal happens only at the edges.
type Money struct {
	Cents int64
}

var maxAmount = decimal.New(math.MaxInt64/100, 0)

// Cents is a convenience constructor.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// ParseAmount converts a decimal string to Money with half-up rounding
// to two decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative, zero (after rounding) and non-numeric values are rejected
// with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,345") -> 1235 cents
//	ParseAmount("0.004")  -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// FromDecimal rounds d to cents and enforces the positive-amount rule.
func FromDecimal(d decimal.Decimal) (Money, error) {
	d = d.Round(2)
	if !d.IsPositive() || d.GreaterThan(maxAmount) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).IntPart()}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(n Money) Money { return Money{Cents: m.Cents + n.Cents} }
func (m Money) Sub(n Money) Money { return Money{Cents: m.Cents - n.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }

// Decimal returns the major-unit value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String returns the amount with exactly two decimals, e.g. "1000.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON writes the amount as a fixed two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON reads either a quoted decimal string or a bare JSON number,
// rounded half-up to cents. Zero and negative values are accepted since
// totals and balances carry them; entry amounts are checked by Validate.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}
	d = d.Round(2)
	if d.Abs().GreaterThan(maxAmount) {
		return ErrInvalidAmount
	}
	*m = Money{Cents: d.Shift(2).IntPart()}
	return nil
}
