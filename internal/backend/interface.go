package backend

import (
	"context"

	"cashbook/internal/snapshot"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// PingFunc reports whether the backend can currently serve requests
type PingFunc func(ctx context.Context) error

// BackendResult contains the snapshot store and its lifecycle hooks.
// Cleanup and Ping may be nil.
type BackendResult struct {
	Store   snapshot.Store
	Cleanup CleanupFunc
	Ping    PingFunc
}

// Close runs Cleanup if present
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a snapshot store based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Snapshot key shared by every backend
	SnapshotKey string

	// File backend specific
	DataDir string

	// SQLite specific
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
