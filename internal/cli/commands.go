package cli

import "time"

// Build metadata, set by main.
var (
	Version   = ""
	CommitSHA = ""
)

// shutdownTimeout bounds the graceful stop of the HTTP server.
const shutdownTimeout = 10 * time.Second

// Globals defines global flags available to all commands.
type Globals struct {
	EnvFile  string `help:"Environment file loaded before reading configuration." default:".env" name:"env-file"`
	Backend  string `help:"Persistence backend: memory, file or sqlite (overrides DATA_BACKEND)."`
	DataDir  string `help:"Directory for the file backend (overrides DATA_DIR)." name:"data-dir"`
	DBPath   string `help:"Database path for the sqlite backend (overrides SQLITE_DB_PATH)." name:"db-path"`
	LogLevel string `help:"Log level: debug, info, warn or error (overrides LOG_LEVEL)." name:"log-level"`
	Currency string `help:"ISO 4217 display currency (overrides CURRENCY)."`

	// Confirm answers yes/no questions. It defaults to a terminal prompt.
	Confirm func(question string) (bool, error) `kong:"-"`
}

func (g *Globals) confirm(question string) (bool, error) {
	if g.Confirm != nil {
		return g.Confirm(question)
	}
	return promptYesNo(question)
}

type Commands struct {
	Globals

	Add        AddCmd        `cmd:"" help:"Record an income, expense or investment."`
	Rm         RmCmd         `cmd:"" help:"Delete an entry by id."`
	Clear      ClearCmd      `cmd:"" help:"Delete every entry."`
	Summary    SummaryCmd    `cmd:"" help:"Show balance and totals."`
	List       ListCmd       `cmd:"" help:"List entries, newest first."`
	Categories CategoriesCmd `cmd:"" help:"Show expenses by category."`
	Trend      TrendCmd      `cmd:"" help:"Show income and expenses per month."`
	Periods    PeriodsCmd    `cmd:"" help:"Show the available filter values."`
	Serve      ServeCmd      `cmd:"" help:"Run the JSON HTTP API."`
}
