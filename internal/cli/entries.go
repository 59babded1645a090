package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"cashbook/internal/core"
	"cashbook/internal/ledger"
)

type AddCmd struct {
	Type        string `help:"Entry type: income, expense or investment." required:"" short:"t"`
	Description string `help:"What the entry is for." required:"" short:"d"`
	Amount      string `help:"Positive amount, e.g. 45.50." required:"" short:"a"`
	Category    string `help:"Free-form category." short:"c"`
	Date        string `help:"Entry date as YYYY-MM-DD (default today)."`
}

func (cmd *AddCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()
	rt, err := Open(runCtx, globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	date := cmd.Date
	if strings.TrimSpace(date) == "" {
		date = core.Today().String()
	}

	e, err := rt.Service.Add(runCtx, ledger.Draft{
		Type:        cmd.Type,
		Description: cmd.Description,
		Amount:      cmd.Amount,
		Category:    cmd.Category,
		Date:        date,
	})
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		printError(ctx.Stderr, verr.Reason())
		return NewCommandError(2)
	}
	if err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Added %s %q %s on %s (id %d)",
		e.Type, e.Description, rt.Money.Format(e.Amount), e.Date, e.ID))
	return nil
}

type RmCmd struct {
	ID int64 `arg:"" help:"Id of the entry to delete."`
}

func (cmd *RmCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()
	rt, err := Open(runCtx, globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	removed, err := rt.Service.Remove(runCtx, cmd.ID)
	if err != nil {
		return err
	}
	if !removed {
		printInfof(ctx.Stdout, "No entry with id %d", cmd.ID)
		return nil
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted entry %d", cmd.ID))
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *ClearCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()
	rt, err := Open(runCtx, globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	var promptErr error
	err = rt.Service.Clear(runCtx, func(count int) bool {
		if cmd.Yes {
			return true
		}
		ok, err := globals.confirm(fmt.Sprintf("Delete all %d entries?", count))
		promptErr = err
		return ok
	})
	if promptErr != nil {
		return promptErr
	}

	switch {
	case errors.Is(err, ledger.ErrNothingToClear):
		printInfof(ctx.Stdout, "No data to clear")
		return nil
	case errors.Is(err, ledger.ErrClearDeclined):
		printInfof(ctx.Stdout, "Nothing deleted")
		return nil
	case err != nil:
		return err
	}

	printSuccess(ctx.Stdout, "All transactions have been cleared")
	return nil
}
