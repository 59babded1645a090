// Package snapshot defines the load-all/save-all persistence port of
// the ledger and the JSON encoding shared by its adapters.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"cashbook/internal/core"
)

// ErrMalformed is returned by Decode when the stored bytes are not a
// valid snapshot.
var ErrMalformed = errors.New("malformed snapshot")

// Encode serializes entries as a JSON array.
func Encode(entries []core.Entry) ([]byte, error) {
	if entries == nil {
		entries = []core.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Empty input and a JSON null decode to an
// empty slice. Any unparseable, invalid or duplicated entry makes the
// whole snapshot malformed.
func Decode(data []byte) ([]core.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []core.Entry{}, nil
	}

	var entries []core.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	seen := make(map[int64]struct{}, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformed, i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrMalformed, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	if entries == nil {
		entries = []core.Entry{}
	}
	return entries, nil
}
