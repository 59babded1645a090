package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"

	"cashbook/internal/core"
	"cashbook/internal/currency"
	"cashbook/internal/report"
)

type SummaryCmd struct {
	Period string `help:"Period such as \"Oct 2025\" (default all)."`
}

func (cmd *SummaryCmd) Run(ctx *kong.Context, globals *Globals) error {
	rt, err := Open(context.Background(), globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	s := rt.Service.Summary(cmd.Period)
	t := newTable().alignRight(1)
	t.add("Balance", rt.Money.Format(s.Balance))
	t.add(periodLabel("Income", cmd.Period), rt.Money.Format(s.IncomeTotal))
	t.add(periodLabel("Expenses", cmd.Period), rt.Money.Format(s.ExpenseTotal))
	t.add(periodLabel("Investment", cmd.Period), rt.Money.Format(s.InvestmentTotal))
	t.render(ctx.Stdout)
	return nil
}

func periodLabel(label, period string) string {
	if period == "" || period == report.All {
		return label
	}
	return label + " (" + period + ")"
}

type ListCmd struct {
	Category string `help:"Only entries in this category (default all)."`
	Period   string `help:"Only entries in this period, e.g. \"Oct 2025\" (default all)."`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	rt, err := Open(context.Background(), globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	entries := rt.Service.Entries(cmd.Category, cmd.Period)
	if len(entries) == 0 {
		printInfof(ctx.Stdout, "No entries")
		return nil
	}

	t := newTable("ID", "DATE", "TYPE", "DESCRIPTION", "CATEGORY", "AMOUNT").alignRight(0, 5)
	for _, e := range entries {
		t.add(strconv.FormatInt(e.ID, 10), e.Date.String(), e.Type.String(), e.Description, e.Category, signedAmount(rt.Money, e))
	}
	t.render(ctx.Stdout)
	return nil
}

// signedAmount shows income as positive and everything else as negative.
func signedAmount(money *currency.Formatter, e core.Entry) string {
	if e.Type == core.Income {
		return money.Signed(e.Amount)
	}
	return money.Format(core.Cents(-e.Amount.Cents))
}

type CategoriesCmd struct {
	Period string `help:"Period such as \"Oct 2025\" (default all)."`
}

func (cmd *CategoriesCmd) Run(ctx *kong.Context, globals *Globals) error {
	rt, err := Open(context.Background(), globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	cats := rt.Service.Categories(cmd.Period)
	if len(cats) == 0 {
		printInfof(ctx.Stdout, "No expenses")
		return nil
	}

	t := newTable("CATEGORY", "SPENT").alignRight(1)
	for _, c := range cats {
		t.add(c.Name, rt.Money.Format(c.Amount))
	}
	t.render(ctx.Stdout)
	return nil
}

type TrendCmd struct{}

func (cmd *TrendCmd) Run(ctx *kong.Context, globals *Globals) error {
	rt, err := Open(context.Background(), globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	series := rt.Service.Trend()
	if series.Len() == 0 {
		printInfof(ctx.Stdout, "No entries")
		return nil
	}

	t := newTable("PERIOD", "INCOME", "EXPENSES").alignRight(1, 2)
	for i, p := range series.Periods {
		t.add(p, rt.Money.Format(series.Income[i]), rt.Money.Format(series.Expense[i]))
	}
	t.render(ctx.Stdout)
	return nil
}

type PeriodsCmd struct{}

func (cmd *PeriodsCmd) Run(ctx *kong.Context, globals *Globals) error {
	rt, err := Open(context.Background(), globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := rt.Service.Options()
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render("Periods"))
	for _, p := range append([]string{report.All}, opts.Periods...) {
		_, _ = fmt.Fprintf(ctx.Stdout, "  %s\n", p)
	}
	_, _ = fmt.Fprintln(ctx.Stdout, headerStyle.Render("Categories"))
	for _, c := range append([]string{report.All}, opts.Categories...) {
		label := c
		if label == "" {
			label = "(none)"
		}
		_, _ = fmt.Fprintf(ctx.Stdout, "  %s\n", label)
	}
	return nil
}
