package api

import (
	"context"

	"github.com/obralog/obralog/internal/models"
	"github.com/obralog/obralog/internal/service"
)

// RecordRepository defines record operations used by RecordHandler.
type RecordRepository interface {
	ListRecords(ctx context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error)
	GetRecord(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error)
	CreateRecord(ctx context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error)
	DeleteRecord(ctx context.Context, kind models.Kind, recordID string) error
	FieldKeys(ctx context.Context, kind models.Kind) ([]string, error)
}

// Editor defines the audited edit operation used by RecordHandler.
type Editor interface {
	Edit(ctx context.Context, kind models.Kind, recordID string, req service.EditRequest) (*models.Record, error)
}

// Gate defines the signing operations used by SignatureHandler.
type Gate interface {
	RequestSignature(ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty) (*service.SignatureTicket, error)
	CommitSignature(ctx context.Context, ticket *service.SignatureTicket, upload models.ImageUpload) (*models.Record, error)
	Status(ctx context.Context, kind models.Kind, recordID string) (*service.GateStatus, error)
}

// ReportGenerator defines the report operation used by ReportHandler.
type ReportGenerator interface {
	Generate(ctx context.Context, kind models.Kind, recordID string, visit models.VisitSession) (*models.ReportDocument, error)
}

// AuditReader defines audit log reads used by AuditHandler.
type AuditReader interface {
	ListForRecord(ctx context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error)
}

// BlobFetcher defines blob reads used by BlobHandler.
type BlobFetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, string, error)
	GetMetadata(ctx context.Context, path string) (*models.BlobInfo, error)
}
