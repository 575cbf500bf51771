package ws

import (
	"encoding/json"
	"time"
)

// Event is the structured message sent to WebSocket clients. Clients
// use record lifecycle events (record.created, record.updated,
// record.signed, record.deleted, audit.appended) to refresh cached
// list views.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}
