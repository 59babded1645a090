package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cashbook/internal/snapshot/jsonfile"
	"cashbook/internal/snapshot/memory"
	"cashbook/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case FileBackend:
		return f.createFileBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.SnapshotKey, storage.WithLogger(f.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.InfoContext(ctx, "Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"key", config.SnapshotKey)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
		Ping:    repo.Ping,
	}, nil
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := jsonfile.New(config.DataDir, config.SnapshotKey, jsonfile.WithLogger(f.logger))

	f.logger.InfoContext(ctx, "Initialized file backend", "path", store.Path())

	return &BackendResult{
		Store: store,
		Ping: func(context.Context) error {
			info, err := os.Stat(config.DataDir)
			if os.IsNotExist(err) {
				// created on first save
				return nil
			}
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", config.DataDir)
			}
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := memory.New(config.SnapshotKey)

	f.logger.InfoContext(ctx, "Initialized memory backend, data will not survive a restart")

	return &BackendResult{
		Store: store,
	}, nil
}
