package core

import (
	"strings"
	"time"
)

// PeriodLayout renders a period as an abbreviated month and year, "Oct 2025".
const PeriodLayout = "Jan 2006"

// Period is a calendar month. Ordering always uses the (Year, Month)
// pair; the label from Key is for display and filter values only.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing d.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year(), Month: d.Month()}
}

// ParsePeriodKey is the inverse of Period.Key.
func ParsePeriodKey(key string) (Period, bool) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(key))
	if err != nil {
		return Period{}, false
	}
	return Period{Year: t.Year(), Month: t.Month()}, true
}

// Key returns the stable label used for grouping and filtering.
func (p Period) Key() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format(PeriodLayout)
}

func (p Period) String() string {
	return p.Key()
}

// Before reports whether p is an earlier month than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Compare returns -1, 0 or +1 ordering by (Year, Month).
func (p Period) Compare(o Period) int {
	switch {
	case p.Before(o):
		return -1
	case o.Before(p):
		return 1
	default:
		return 0
	}
}
