package models

import "time"

// AuditEntry is one immutable change record: who edited a record, when,
// why, and the full before/after document snapshots. Entries are
// append-only; nothing in this codebase updates or deletes one.
//
// Exactly one entry is written per successful editor commit. Signature
// transitions never produce an entry.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	RecordID  string    `json:"record_id"`
	ActorName string    `json:"actor_name"`
	Reason    string    `json:"reason"`
	Before    *Record   `json:"before"`
	After     *Record   `json:"after"`
	CreatedAt time.Time `json:"created_at"`
}
