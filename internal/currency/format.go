// Package currency renders ledger amounts for display.
package currency

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"

	"cashbook/internal/core"
)

// DefaultCode is the display currency when none is configured.
const DefaultCode = "INR"

// Formatter renders Money in a single ISO 4217 currency.
type Formatter struct {
	cur *money.Currency
}

// New returns a Formatter for code. Unknown codes are rejected.
func New(code string) (*Formatter, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCode
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return nil, fmt.Errorf("unknown currency code %q", code)
	}
	if cur.Fraction != 2 {
		return nil, fmt.Errorf("currency %s has %d decimal places, only 2 are supported", code, cur.Fraction)
	}
	return &Formatter{cur: cur}, nil
}

// MustNew is like New but panics on an unknown code.
func MustNew(code string) *Formatter {
	f, err := New(code)
	if err != nil {
		panic(err)
	}
	return f
}

// Code returns the ISO code of the formatter.
func (f *Formatter) Code() string {
	return f.cur.Code
}

// Format renders m with the currency symbol and grouping,
// e.g. "$1,000.00" or "₹1,00,000.00".
func (f *Formatter) Format(m core.Money) string {
	if f.cur.Code == "INR" {
		return f.formatIndian(m.Cents)
	}
	return money.New(m.Cents, f.cur.Code).Display()
}

// Signed renders m with an explicit plus sign when positive.
func (f *Formatter) Signed(m core.Money) string {
	if m.Cents > 0 {
		return "+" + f.Format(m)
	}
	return f.Format(m)
}

// formatIndian groups the integer part in lakhs and crores the way
// en-IN does: the last three digits, then pairs.
func (f *Formatter) formatIndian(cents int64) string {
	neg := cents < 0
	abs := uint64(cents)
	if neg {
		abs = uint64(-cents)
	}

	whole := fmt.Sprintf("%d", abs/100)
	frac := fmt.Sprintf("%02d", abs%100)

	var b strings.Builder
	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		lead := len(head) % 2
		if lead > 0 {
			b.WriteString(head[:lead])
		}
		for i := lead; i < len(head); i += 2 {
			if b.Len() > 0 {
				b.WriteString(f.cur.Thousand)
			}
			b.WriteString(head[i : i+2])
		}
		b.WriteString(f.cur.Thousand)
		b.WriteString(tail)
	} else {
		b.WriteString(whole)
	}

	amount := b.String() + f.cur.Decimal + frac
	out := strings.Replace(f.cur.Template, "$", f.cur.Grapheme, 1)
	out = strings.Replace(out, "1", amount, 1)
	if neg {
		return "-" + out
	}
	return out
}
