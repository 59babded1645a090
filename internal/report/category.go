package report

import (
	"sort"

	"cashbook/internal/core"
)

// GroupExpensesByCategory totals expense entries per category within
// periodFilter. Categories with no matching expense are absent.
func GroupExpensesByCategory(entries []core.Entry, periodFilter string) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, e := range entries {
		if e.Type != core.Expense || !matchPeriod(e, periodFilter) {
			continue
		}
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// SortCategories orders a category mapping by descending amount, then by name.
func SortCategories(totals map[string]core.Money) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
