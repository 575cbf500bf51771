package service

import (
	"encoding/json"

	"github.com/obralog/obralog/internal/models"
)

// EventBroadcaster pushes record-change events to connected WebSocket
// clients so cached list views refresh without polling.
type EventBroadcaster interface {
	BroadcastEvent(eventType string, data json.RawMessage)
}

// recordEvent is the payload for record lifecycle events.
type recordEvent struct {
	Kind     models.Kind           `json:"kind"`
	RecordID string                `json:"record_id"`
	Party    models.SignatureParty `json:"party,omitempty"`
	State    models.SignatureState `json:"state,omitempty"`
}

// notify broadcasts an event, tolerating a nil broadcaster (tests, CLI
// seeding paths). Events are best-effort; marshal failures are dropped.
func notify(b EventBroadcaster, eventType string, payload recordEvent) {
	if b == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	b.BroadcastEvent(eventType, data)
}
