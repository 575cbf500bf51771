package api_test

import (
	"context"

	"github.com/obralog/obralog/internal/models"
	"github.com/obralog/obralog/internal/service"
)

// mockRecordRepo implements api.RecordRepository via function fields.
type mockRecordRepo struct {
	listFn      func(ctx context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error)
	getFn       func(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error)
	createFn    func(ctx context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error)
	deleteFn    func(ctx context.Context, kind models.Kind, recordID string) error
	fieldKeysFn func(ctx context.Context, kind models.Kind) ([]string, error)
}

func (m *mockRecordRepo) ListRecords(ctx context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error) {
	return m.listFn(ctx, kind, projectID, limit, offset)
}

func (m *mockRecordRepo) GetRecord(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error) {
	return m.getFn(ctx, kind, recordID)
}

func (m *mockRecordRepo) CreateRecord(ctx context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error) {
	return m.createFn(ctx, kind, req)
}

func (m *mockRecordRepo) DeleteRecord(ctx context.Context, kind models.Kind, recordID string) error {
	return m.deleteFn(ctx, kind, recordID)
}

func (m *mockRecordRepo) FieldKeys(ctx context.Context, kind models.Kind) ([]string, error) {
	return m.fieldKeysFn(ctx, kind)
}

// mockEditor implements api.Editor.
type mockEditor struct {
	editFn func(ctx context.Context, kind models.Kind, recordID string, req service.EditRequest) (*models.Record, error)
}

func (m *mockEditor) Edit(ctx context.Context, kind models.Kind, recordID string, req service.EditRequest) (*models.Record, error) {
	return m.editFn(ctx, kind, recordID, req)
}

// mockGate implements api.Gate backed by a real SignatureGate over a
// canned store, or by function fields for error paths.
type mockGate struct {
	requestFn func(ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty) (*service.SignatureTicket, error)
	commitFn  func(ctx context.Context, ticket *service.SignatureTicket, upload models.ImageUpload) (*models.Record, error)
	statusFn  func(ctx context.Context, kind models.Kind, recordID string) (*service.GateStatus, error)
}

func (m *mockGate) RequestSignature(ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty) (*service.SignatureTicket, error) {
	return m.requestFn(ctx, kind, recordID, party)
}

func (m *mockGate) CommitSignature(ctx context.Context, ticket *service.SignatureTicket, upload models.ImageUpload) (*models.Record, error) {
	return m.commitFn(ctx, ticket, upload)
}

func (m *mockGate) Status(ctx context.Context, kind models.Kind, recordID string) (*service.GateStatus, error) {
	return m.statusFn(ctx, kind, recordID)
}

// mockReports implements api.ReportGenerator.
type mockReports struct {
	generateFn func(ctx context.Context, kind models.Kind, recordID string, visit models.VisitSession) (*models.ReportDocument, error)
}

func (m *mockReports) Generate(ctx context.Context, kind models.Kind, recordID string, visit models.VisitSession) (*models.ReportDocument, error) {
	return m.generateFn(ctx, kind, recordID, visit)
}

// mockAuditReader implements api.AuditReader.
type mockAuditReader struct {
	listFn func(ctx context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error)
}

func (m *mockAuditReader) ListForRecord(ctx context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error) {
	return m.listFn(ctx, kind, recordID)
}

// mockBlobFetcher implements api.BlobFetcher.
type mockBlobFetcher struct {
	fetchFn func(ctx context.Context, path string) ([]byte, string, error)
	metaFn  func(ctx context.Context, path string) (*models.BlobInfo, error)
}

func (m *mockBlobFetcher) Fetch(ctx context.Context, path string) ([]byte, string, error) {
	return m.fetchFn(ctx, path)
}

func (m *mockBlobFetcher) GetMetadata(ctx context.Context, path string) (*models.BlobInfo, error) {
	return m.metaFn(ctx, path)
}
