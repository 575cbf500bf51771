package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/models"
)

// AuditService exposes the read side of the audit log. Writes happen
// only inside RecordEditor.Edit; nothing else appends, and nothing
// anywhere updates or deletes an entry.
type AuditService struct {
	audit AuditLog
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(audit AuditLog, log *logrus.Logger) *AuditService {
	return &AuditService{audit: audit, log: log}
}

// ListForRecord returns a record's audit entries, newest first.
func (s *AuditService) ListForRecord(ctx context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error) {
	return s.audit.ListForRecord(ctx, kind, recordID)
}
