package report

import (
	"sort"

	"cashbook/internal/core"
)

type periodSums struct {
	income  core.Money
	expense core.Money
}

// BuildTimeSeries returns per-period income and expense sums over the
// whole history, oldest period first. Investment entries still make
// their period appear but add nothing to either series.
func BuildTimeSeries(entries []core.Entry) core.TimeSeries {
	sums := make(map[core.Period]*periodSums)
	for _, e := range entries {
		p := e.Period()
		ps, ok := sums[p]
		if !ok {
			ps = &periodSums{}
			sums[p] = ps
		}
		switch e.Type {
		case core.Income:
			ps.income = ps.income.Add(e.Amount)
		case core.Expense:
			ps.expense = ps.expense.Add(e.Amount)
		}
	}

	periods := make([]core.Period, 0, len(sums))
	for p := range sums {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	series := core.TimeSeries{
		Periods: make([]string, len(periods)),
		Income:  make([]core.Money, len(periods)),
		Expense: make([]core.Money, len(periods)),
	}
	for i, p := range periods {
		series.Periods[i] = p.Key()
		series.Income[i] = sums[p].income
		series.Expense[i] = sums[p].expense
	}
	return series
}
