package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event names
const (
	EventEntryAdded    = "entry.added"
	EventEntryRemoved  = "entry.removed"
	EventLedgerCleared = "ledger.cleared"
)

// LedgerEvent announces a successful ledger mutation. It carries the
// affected id and the ledger size afterwards, never the entry itself.
type LedgerEvent struct {
	Event     string    `json:"event"`
	EntryID   int64     `json:"entry_id,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time
func NewLedgerEvent(event string, entryID int64, count int) LedgerEvent {
	return LedgerEvent{
		Event:     event,
		EntryID:   entryID,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates a message from JSON bytes
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return LedgerEvent{}, err
	}
	return msg, nil
}
