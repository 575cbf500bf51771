// Package domain defines the canonical interfaces shared across the
// service, API, and client layers. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/obralog/obralog/internal/models"
)

// RecordStore is the document-store surface for one parameterized record
// collection family (records-<kind>): keyed documents, schema-less field
// bags, full-document replace semantics.
type RecordStore interface {
	ListRecords(ctx context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error)
	GetRecord(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error)
	CreateRecord(ctx context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error)
	ReplaceRecord(ctx context.Context, kind models.Kind, record *models.Record) (*models.Record, error)
	SetSignature(ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty, path string) (*models.Record, error)
	DeleteRecord(ctx context.Context, kind models.Kind, recordID string) error
	FieldKeys(ctx context.Context, kind models.Kind) ([]string, error)
}

// AuditLog is the append-only history surface (history-<kind>). Append is
// an unconditional insert; no update or delete exists anywhere.
type AuditLog interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListForRecord(ctx context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error)
}

// BlobStore is the binary storage collaborator for photos and signature
// images. GetURL returns a stable download reference for a stored path.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string, metadata map[string]string) error
	GetURL(ctx context.Context, path string) (string, error)
	GetMetadata(ctx context.Context, path string) (*models.BlobInfo, error)
	Delete(ctx context.Context, path string) error
}

// ImageUploader compresses an image, attaches custom metadata, writes it
// to blob storage, and returns the stable storage path.
type ImageUploader interface {
	Upload(ctx context.Context, upload models.ImageUpload, meta models.ImageMetadata) (string, error)
}

// ImageResolver resolves a stored image path into its display URL and
// custom metadata for report embedding.
type ImageResolver interface {
	Resolve(ctx context.Context, path string) (*models.ResolvedImage, error)
}

// IdentityLookup maps an API key to the actor's display name used in
// audit entries. It is the narrow surface of the identity provider.
type IdentityLookup interface {
	GetActorByAPIKey(ctx context.Context, apiKey string) (string, error)
}
