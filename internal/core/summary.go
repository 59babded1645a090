package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// Summary holds the card values: a lifetime balance and the
// income/expense/investment totals of the selected period.
type Summary struct {
	Balance         Money `json:"balance"`
	IncomeTotal     Money `json:"income_total"`
	ExpenseTotal    Money `json:"expense_total"`
	InvestmentTotal Money `json:"investment_total"`
}

// TimeSeries is a chronologically ordered per-period income and expense
// history. The three slices are parallel.
type TimeSeries struct {
	Periods []string `json:"periods"`
	Income  []Money  `json:"income"`
	Expense []Money  `json:"expense"`
}

// Len returns the number of periods in the series.
func (s TimeSeries) Len() int {
	return len(s.Periods)
}
