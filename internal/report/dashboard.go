package report

import "cashbook/internal/core"

// Filters selects what the period-scoped views show.
type Filters struct {
	Category string `json:"category"`
	Period   string `json:"period"`
}

// Normalize replaces empty filter values with All.
func (f Filters) Normalize() Filters {
	if f.Category == "" {
		f.Category = All
	}
	if f.Period == "" {
		f.Period = All
	}
	return f
}

// Comparison is the income versus expense pair of the selected period.
type Comparison struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

// Dashboard bundles every view a renderer needs after a change.
type Dashboard struct {
	Filters    Filters               `json:"filters"`
	Summary    core.Summary          `json:"summary"`
	Entries    []core.Entry          `json:"entries"`
	Categories []core.CategoryAmount `json:"categories"`
	Comparison Comparison            `json:"comparison"`
	Trend      core.TimeSeries       `json:"trend"`
	Options    Options               `json:"options"`
}

// BuildDashboard recomputes all views. The category filter narrows the
// entry table only; summary, breakdown and comparison follow the period
// filter, and the trend always spans the full history.
func BuildDashboard(entries []core.Entry, f Filters) Dashboard {
	f = f.Normalize()
	summary := Summarize(entries, f.Period)
	return Dashboard{
		Filters:    f,
		Summary:    summary,
		Entries:    ListEntries(entries, f.Category, f.Period),
		Categories: SortCategories(GroupExpensesByCategory(entries, f.Period)),
		Comparison: Comparison{Income: summary.IncomeTotal, Expense: summary.ExpenseTotal},
		Trend:      BuildTimeSeries(entries),
		Options:    FilterOptions(entries),
	}
}
