package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obralog/obralog/internal/models"
)

// HistoryStore provides data access for the record_history table. The
// table is append-only: this store issues INSERT and SELECT only, never
// UPDATE or DELETE.
type HistoryStore struct {
	Base
}

// NewHistoryStore creates a HistoryStore.
func NewHistoryStore(base Base) *HistoryStore {
	return &HistoryStore{Base: base}
}

// Append inserts one audit entry. Unconditional insert; there is no
// merge or upsert path.
func (s *HistoryStore) Append(ctx context.Context, entry *models.AuditEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	beforeJSON, err := json.Marshal(entry.Before)
	if err != nil {
		return fmt.Errorf("marshalling audit before snapshot: %w", err)
	}

	afterJSON, err := json.Marshal(entry.After)
	if err != nil {
		return fmt.Errorf("marshalling audit after snapshot: %w", err)
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO record_history (kind, record_id, actor_name, reason, before, after)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.Kind, entry.RecordID, entry.ActorName, entry.Reason, beforeJSON, afterJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// ListForRecord returns all audit entries for a record, newest first.
// The store orders by created_at descending so display consumers get
// the sort the UI expects.
func (s *HistoryStore) ListForRecord(ctx context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT id, kind, record_id, actor_name, reason, before, after, created_at
		FROM record_history
		WHERE kind = $1 AND record_id = $2
		ORDER BY created_at DESC, id DESC`,
		kind, recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying record history: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry

	for rows.Next() {
		var e models.AuditEntry
		var beforeJSON, afterJSON []byte

		if err := rows.Scan(&e.ID, &e.Kind, &e.RecordID, &e.ActorName, &e.Reason, &beforeJSON, &afterJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		if err := json.Unmarshal(beforeJSON, &e.Before); err != nil {
			return nil, fmt.Errorf("unmarshalling audit before snapshot: %w", err)
		}

		if err := json.Unmarshal(afterJSON, &e.After); err != nil {
			return nil, fmt.Errorf("unmarshalling audit after snapshot: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, nil
}
