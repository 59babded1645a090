// Package report derives the read-side views of a ledger: the summary
// cards, the expense breakdown by category, the trend series and the
// filtered entry list.
//
// Every function is a pure function of the entries it is given and is
// meant to be recomputed after each mutation or filter change.
package report

import "cashbook/internal/core"

// All is the filter value that disables a category or period filter.
const All = "all"

// matchPeriod reports whether e belongs to the period labelled filter.
func matchPeriod(e core.Entry, filter string) bool {
	return filter == All || e.Period().Key() == filter
}

func matchCategory(e core.Entry, filter string) bool {
	return filter == All || e.Category == filter
}

// Summarize computes the card values.
//
// Balance always covers every entry: income adds, expense and
// investment subtract. The three totals only cover entries in
// periodFilter, or every entry when periodFilter is All.
func Summarize(entries []core.Entry, periodFilter string) core.Summary {
	var s core.Summary
	for _, e := range entries {
		switch e.Type {
		case core.Income:
			s.Balance = s.Balance.Add(e.Amount)
		case core.Expense, core.Investment:
			s.Balance = s.Balance.Sub(e.Amount)
		}

		if !matchPeriod(e, periodFilter) {
			continue
		}
		switch e.Type {
		case core.Income:
			s.IncomeTotal = s.IncomeTotal.Add(e.Amount)
		case core.Expense:
			s.ExpenseTotal = s.ExpenseTotal.Add(e.Amount)
		case core.Investment:
			s.InvestmentTotal = s.InvestmentTotal.Add(e.Amount)
		}
	}
	return s
}
