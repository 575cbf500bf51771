package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/obralog/obralog/internal/api"
	"github.com/obralog/obralog/internal/models"
)

func TestReportGenerate(t *testing.T) {
	t.Parallel()

	reports := &mockReports{
		generateFn: func(_ context.Context, kind models.Kind, recordID string, visit models.VisitSession) (*models.ReportDocument, error) {
			if visit.VisitNumber != 4 || visit.Date != "2026-08-29" {
				t.Errorf("visit session not forwarded: %+v", visit)
			}

			return &models.ReportDocument{
				Filename:    "informe_edificio-central_2026-08-29_visita-4.pdf",
				Kind:        kind,
				RecordID:    recordID,
				GeneratedAt: time.Now().UTC(),
				Pages: []models.ReportPage{
					{Type: models.PageSummary, Summary: &models.SummaryPage{}},
					{Type: models.PageSignature, Signature: &models.SignaturePage{}},
				},
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewReportHandler(reports, testLogger())
	r.POST("/records/:kind/:id/report", h.Generate)

	w := doRequest(r, http.MethodPost, "/records/inspection/rec-1/report",
		`{"date":"2026-08-29","hour":"10:30","visit_number":4}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var doc models.ReportDocument
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Pages) != 2 || doc.Filename == "" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestReportGenerate_NotReady(t *testing.T) {
	t.Parallel()

	reports := &mockReports{
		generateFn: func(context.Context, models.Kind, string, models.VisitSession) (*models.ReportDocument, error) {
			return nil, models.ErrReportNotReady
		},
	}

	r := newTestRouter()
	h := api.NewReportHandler(reports, testLogger())
	r.POST("/records/:kind/:id/report", h.Generate)

	w := doRequest(r, http.MethodPost, "/records/inspection/rec-1/report", `{}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuditListForRecord(t *testing.T) {
	t.Parallel()

	audit := &mockAuditReader{
		listFn: func(_ context.Context, kind models.Kind, recordID string) ([]models.AuditEntry, error) {
			return []models.AuditEntry{
				{ID: 2, Kind: kind, RecordID: recordID, ActorName: "J. Pérez", Reason: "second"},
				{ID: 1, Kind: kind, RecordID: recordID, ActorName: "J. Pérez", Reason: "first"},
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewAuditHandler(audit, testLogger())
	r.GET("/records/:kind/:id/audit", h.ListForRecord)

	w := doRequest(r, http.MethodGet, "/records/inspection/rec-1/audit", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Entries []models.AuditEntry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Entries[0].ID != 2 {
		t.Errorf("unexpected entries: %+v", resp.Entries)
	}
}

func TestBlobGet(t *testing.T) {
	t.Parallel()

	blobs := &mockBlobFetcher{
		fetchFn: func(_ context.Context, path string) ([]byte, string, error) {
			if path != "images/2026-08-29/abc.jpg" {
				t.Errorf("path = %q", path)
			}

			return []byte{0xFF, 0xD8, 0xFF}, "image/jpeg", nil
		},
	}

	r := newTestRouter()
	h := api.NewBlobHandler(blobs, testLogger())
	r.GET("/blobs/*path", h.Get)

	w := doRequest(r, http.MethodGet, "/blobs/images/2026-08-29/abc.jpg", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("content type = %q", w.Header().Get("Content-Type"))
	}
}

func TestBlobGet_Metadata(t *testing.T) {
	t.Parallel()

	blobs := &mockBlobFetcher{
		metaFn: func(context.Context, string) (*models.BlobInfo, error) {
			return &models.BlobInfo{
				ContentType:    "image/jpeg",
				CustomMetadata: map[string]string{"note": "fisura"},
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewBlobHandler(blobs, testLogger())
	r.GET("/blobs/*path", h.Get)

	w := doRequest(r, http.MethodGet, "/blobs/images/abc.jpg?meta=1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var info models.BlobInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info.CustomMetadata["note"] != "fisura" {
		t.Errorf("metadata = %+v", info.CustomMetadata)
	}
}

func TestBlobGet_NotFound(t *testing.T) {
	t.Parallel()

	blobs := &mockBlobFetcher{
		fetchFn: func(context.Context, string) ([]byte, string, error) {
			return nil, "", models.ErrBlobNotFound
		},
	}

	r := newTestRouter()
	h := api.NewBlobHandler(blobs, testLogger())
	r.GET("/blobs/*path", h.Get)

	w := doRequest(r, http.MethodGet, "/blobs/missing.jpg", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
