// Package cli implements the cashbook command tree and the start-up
// plumbing shared by every command: .env loading, configuration, logging
// and opening the ledger on the configured backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"cashbook/internal/amqp"
	"cashbook/internal/backend"
	"cashbook/internal/config"
	"cashbook/internal/currency"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/services"
)

// amqpConnectAttempts bounds the start-up dial when events are enabled.
const amqpConnectAttempts = 3

// LoadEnvFile loads the .env file for local development.
// A missing file is ignored; a malformed one is an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// SetupLogger initializes structured logging at the given level, writing
// to w, and installs it as the slog default.
func SetupLogger(level string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentApp,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig reads the environment, applies the global flag
// overrides, and validates the result.
func LoadAndValidateConfig(g *Globals) (*config.Config, error) {
	if err := LoadEnvFile(g.EnvFile); err != nil {
		return nil, err
	}

	cfg := config.Load()
	if g.Backend != "" {
		cfg.DataBackend = strings.ToLower(strings.TrimSpace(g.Backend))
	}
	if g.DataDir != "" {
		cfg.DataDir = g.DataDir
	}
	if g.DBPath != "" {
		cfg.SQLiteDBPath = g.DBPath
	}
	if g.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(g.LogLevel))
	}
	if g.Currency != "" {
		cfg.Currency = strings.ToUpper(strings.TrimSpace(g.Currency))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Runtime is an opened ledger with everything a command needs around it.
type Runtime struct {
	Config  *config.Config
	Logger  *log.Logger
	Service *services.LedgerService
	Money   *currency.Formatter

	backend *backend.BackendResult
	events  *amqp.Client
}

// Open loads configuration, opens the backend and loads the ledger.
// Logs are written to logOut.
func Open(ctx context.Context, g *Globals, logOut io.Writer) (*Runtime, error) {
	cfg, err := LoadAndValidateConfig(g)
	if err != nil {
		return nil, err
	}

	logger, err := SetupLogger(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	money, err := currency.New(cfg.Currency)
	if err != nil {
		return nil, err
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog()).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backendCfg.Type, err)
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		Money:   money,
		backend: result,
	}

	store := ledger.Open(ctx, result.Store,
		ledger.WithLogger(logger.WithComponent(log.ComponentStorage).Slog()))

	// A nil *amqp.Client must not become a non-nil Publisher.
	var publisher services.Publisher
	if cfg.EventsEnabled() {
		amqpLogger := logger.WithComponent(log.ComponentAMQP)
		client := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey,
			amqp.WithLogger(amqpLogger.Slog()))
		if err := client.Connect(ctx, amqpConnectAttempts); err != nil {
			amqpLogger.Warn("Change events disabled, broker unreachable",
				log.FieldError, err)
		} else {
			rt.events = client
			publisher = client
		}
	}

	rt.Service = services.NewLedgerService(store, publisher, logger)
	return rt, nil
}

// Ping checks that the backend is reachable.
func (r *Runtime) Ping(ctx context.Context) error {
	if r.backend == nil || r.backend.Ping == nil {
		return nil
	}
	return r.backend.Ping(ctx)
}

// Close releases the broker connection and the backend.
func (r *Runtime) Close() error {
	var errs []error
	if r.events != nil {
		errs = append(errs, r.events.Close())
	}
	if r.backend != nil {
		errs = append(errs, r.backend.Close())
	}
	return errors.Join(errs...)
}
