package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/obralog/obralog/internal/models"
)

// mockRecordStore records calls and returns configured responses.
type mockRecordStore struct {
	mu    sync.Mutex
	calls []string

	listRecords   func(ctx context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error)
	getRecord     func(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error)
	createRecord  func(ctx context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error)
	replaceRecord func(ctx context.Context, kind models.Kind, record *models.Record) (*models.Record, error)
	setSignature  func(ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty, path string) (*models.Record, error)
	deleteRecord  func(ctx context.Context, kind models.Kind, recordID string) error
	fieldKeys     func(ctx context.Context, kind models.Kind) ([]string, error)
}

func (m *mockRecordStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockRecordStore) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}

	return n
}

func (m *mockRecordStore) ListRecords(ctx context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error) {
	m.record("ListRecords")
	return m.listRecords(ctx, kind, projectID, limit, offset)
}

func (m *mockRecordStore) GetRecord(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error) {
	m.record("GetRecord")
	return m.getRecord(ctx, kind, recordID)
}

func (m *mockRecordStore) CreateRecord(ctx context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error) {
	m.record("CreateRecord")
	return m.createRecord(ctx, kind, req)
}

func (m *mockRecordStore) ReplaceRecord(ctx context.Context, kind models.Kind, record *models.Record) (*models.Record, error) {
	m.record("ReplaceRecord")
	return m.replaceRecord(ctx, kind, record)
}

func (m *mockRecordStore) SetSignature(ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty, path string) (*models.Record, error) {
	m.record("SetSignature")
	return m.setSignature(ctx, kind, recordID, party, path)
}

func (m *mockRecordStore) DeleteRecord(ctx context.Context, kind models.Kind, recordID string) error {
	m.record("DeleteRecord")
	return m.deleteRecord(ctx, kind, recordID)
}

func (m *mockRecordStore) FieldKeys(ctx context.Context, kind models.Kind) ([]string, error) {
	m.record("FieldKeys")
	return m.fieldKeys(ctx, kind)
}

// mockAuditLog captures appended entries in memory.
type mockAuditLog struct {
	mu      sync.Mutex
	entries []*models.AuditEntry

	appendErr error
	listErr   error
}

func (m *mockAuditLog) Append(_ context.Context, entry *models.AuditEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)

	return nil
}

func (m *mockAuditLog) ListForRecord(_ context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.AuditEntry
	for _, e := range m.entries {
		if e.Kind == kind && e.RecordID == recordID {
			out = append(out, *e)
		}
	}

	return out, nil
}

func (m *mockAuditLog) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// mockUploader returns configured paths per upload, recording inputs.
type mockUploader struct {
	mu      sync.Mutex
	uploads []models.ImageMetadata

	upload func(ctx context.Context, upload models.ImageUpload, meta models.ImageMetadata) (string, error)
}

func (m *mockUploader) Upload(ctx context.Context, upload models.ImageUpload, meta models.ImageMetadata) (string, error) {
	m.mu.Lock()
	m.uploads = append(m.uploads, meta)
	m.mu.Unlock()

	return m.upload(ctx, upload, meta)
}

// mockResolver resolves image paths via a configured function.
type mockResolver struct {
	resolve func(ctx context.Context, path string) (*models.ResolvedImage, error)
}

func (m *mockResolver) Resolve(ctx context.Context, path string) (*models.ResolvedImage, error) {
	return m.resolve(ctx, path)
}

// mockBlobStore serves GetURL for signature resolution in report tests.
type mockBlobStore struct {
	getURL func(ctx context.Context, path string) (string, error)
}

func (m *mockBlobStore) Put(context.Context, string, []byte, string, map[string]string) error {
	return nil
}

func (m *mockBlobStore) GetURL(ctx context.Context, path string) (string, error) {
	return m.getURL(ctx, path)
}

func (m *mockBlobStore) GetMetadata(context.Context, string) (*models.BlobInfo, error) {
	return nil, models.ErrBlobNotFound
}

func (m *mockBlobStore) Delete(context.Context, string) error {
	return nil
}

// mockBroadcaster records broadcast event types.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (m *mockBroadcaster) BroadcastEvent(eventType string, _ json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
}

func (m *mockBroadcaster) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.events...)
}
