// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/models"
)

// RecordStore is the data-access interface the services depend on.
// It reuses domain.RecordStore since the method sets are identical.
type RecordStore = domain.RecordStore

// AuditLog is an alias for the canonical domain.AuditLog interface.
type AuditLog = domain.AuditLog

// RecordService handles record intake, retrieval, and administrative
// deletion. Edits and signatures go through RecordEditor and
// SignatureGate respectively.
type RecordService struct {
	store  RecordStore
	events EventBroadcaster
	log    *logrus.Logger
}

// NewRecordService creates a RecordService.
func NewRecordService(store RecordStore, events EventBroadcaster, log *logrus.Logger) *RecordService {
	return &RecordService{store: store, events: events, log: log}
}

// ListRecords returns a paginated list of records for a kind, newest
// visit first (pass-through).
func (s *RecordService) ListRecords(
	ctx context.Context, kind models.Kind, projectID string, limit, offset int,
) ([]models.Record, bool, error) {
	return s.store.ListRecords(ctx, kind, projectID, limit, offset)
}

// GetRecord returns a single record by ID (pass-through).
func (s *RecordService) GetRecord(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error) {
	return s.store.GetRecord(ctx, kind, recordID)
}

// CreateRecord validates and persists a new unsigned record. This is
// the intake hook: records enter the system here and leave only through
// DeleteRecord.
func (s *RecordService) CreateRecord(
	ctx context.Context, kind models.Kind, req models.CreateRecordRequest,
) (*models.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.store.CreateRecord(ctx, kind, req)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"kind":       kind,
		"record_id":  rec.ID,
		"project_id": rec.ProjectID,
	}).Info("record created")

	notify(s.events, "record.created", recordEvent{Kind: kind, RecordID: rec.ID})

	return rec, nil
}

// DeleteRecord removes a record. This is the administrative deletion
// hook; it applies regardless of signature state, and audit entries for
// the record are retained.
func (s *RecordService) DeleteRecord(ctx context.Context, kind models.Kind, recordID string) error {
	if err := s.store.DeleteRecord(ctx, kind, recordID); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"kind": kind, "record_id": recordID}).Info("record deleted")

	notify(s.events, "record.deleted", recordEvent{Kind: kind, RecordID: recordID})

	return nil
}

// FieldKeys returns the sorted union of observation field keys across a
// kind's records. The open field bag has no declared schema; this is
// how callers discover it.
func (s *RecordService) FieldKeys(ctx context.Context, kind models.Kind) ([]string, error) {
	return s.store.FieldKeys(ctx, kind)
}
