package report

import (
	"sort"

	"cashbook/internal/core"
)

// ListEntries returns the entries matching both filters, most recent
// date first. Entries on the same day keep their relative input order.
// The input slice is never modified.
func ListEntries(entries []core.Entry, categoryFilter, periodFilter string) []core.Entry {
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if matchCategory(e, categoryFilter) && matchPeriod(e, periodFilter) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// Options are the selectable values of the category and period filters.
type Options struct {
	Categories []string `json:"categories"`
	Periods    []string `json:"periods"`
}

// FilterOptions lists distinct categories alphabetically and distinct
// periods most recent first.
func FilterOptions(entries []core.Entry) Options {
	cats := make(map[string]struct{})
	periods := make(map[core.Period]struct{})
	for _, e := range entries {
		cats[e.Category] = struct{}{}
		periods[e.Period()] = struct{}{}
	}

	opts := Options{
		Categories: make([]string, 0, len(cats)),
		Periods:    make([]string, 0, len(periods)),
	}
	for c := range cats {
		opts.Categories = append(opts.Categories, c)
	}
	sort.Strings(opts.Categories)

	ps := make([]core.Period, 0, len(periods))
	for p := range periods {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[j].Before(ps[i]) })
	for _, p := range ps {
		opts.Periods = append(opts.Periods, p.Key())
	}
	return opts
}
