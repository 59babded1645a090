package snapshot

import (
	"context"

	"cashbook/internal/core"
)

// DefaultKey is the fixed key the ledger snapshot is stored under.
const DefaultKey = "transactions"

// Ports for persistence adapters.
type (
	// Loader returns the last saved snapshot, or an empty slice when
	// nothing has been stored yet.
	Loader interface {
		Load(ctx context.Context) ([]core.Entry, error)
	}

	// Saver replaces the stored snapshot with entries in one write.
	Saver interface {
		Save(ctx context.Context, entries []core.Entry) error
	}

	Store interface {
		Loader
		Saver
	}
)
