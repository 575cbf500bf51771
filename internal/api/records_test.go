package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/obralog/obralog/internal/api"
	"github.com/obralog/obralog/internal/models"
	"github.com/obralog/obralog/internal/service"
)

func TestRecordCreate_Valid(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{
		createFn: func(_ context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error) {
			return &models.Record{ID: req.ID, Kind: kind, ProjectID: req.ProjectID, Version: 1}, nil
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(repo, &mockEditor{}, testLogger())
	r.POST("/records/:kind", h.Create)

	w := doRequest(r, http.MethodPost, "/records/inspection", `{"id":"rec-1","project_id":"proj-1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var rec models.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.ID != "rec-1" || rec.Kind != models.KindInspection {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestRecordCreate_UnknownKind(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewRecordHandler(&mockRecordRepo{}, &mockEditor{}, testLogger())
	r.POST("/records/:kind", h.Create)

	w := doRequest(r, http.MethodPost, "/records/projects", `{"project_id":"proj-1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordCreate_MissingProject(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{
		createFn: func(_ context.Context, _ models.Kind, req models.CreateRecordRequest) (*models.Record, error) {
			return nil, models.ErrMissingProject
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(repo, &mockEditor{}, testLogger())
	r.POST("/records/:kind", h.Create)

	w := doRequest(r, http.MethodPost, "/records/minutes", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordGet_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{
		getFn: func(context.Context, models.Kind, string) (*models.Record, error) {
			return nil, models.ErrRecordNotFound
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(repo, &mockEditor{}, testLogger())
	r.GET("/records/:kind/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/records/inspection/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordList(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{
		listFn: func(_ context.Context, kind models.Kind, projectID string, limit, offset int) ([]models.Record, bool, error) {
			if projectID != "proj-1" || limit != 10 || offset != 5 {
				t.Errorf("unexpected query: project=%q limit=%d offset=%d", projectID, limit, offset)
			}

			return []models.Record{{ID: "rec-1", Kind: kind}}, true, nil
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(repo, &mockEditor{}, testLogger())
	r.GET("/records/:kind", h.List)

	w := doRequest(r, http.MethodGet, "/records/inspection?project_id=proj-1&limit=10&offset=5", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Records []models.Record `json:"records"`
		HasMore bool            `json:"has_more"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Records) != 1 || !resp.HasMore {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRecordEdit_Multipart(t *testing.T) {
	t.Parallel()

	var gotReq service.EditRequest
	editor := &mockEditor{
		editFn: func(_ context.Context, _ models.Kind, _ string, req service.EditRequest) (*models.Record, error) {
			gotReq = req

			return &models.Record{ID: "rec-1", Version: 2}, nil
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(&mockRecordRepo{}, editor, testLogger())
	r.POST("/records/:kind/:id/edit", h.Edit)

	w := doMultipart(r, "/records/inspection/rec-1/edit",
		map[string]string{"payload": `{"fields":{"sectorNombre":"B"},"reason":"typo in sector"}`},
		[]filePart{{field: "image_2", filename: "photo.jpg", data: []byte{0xFF, 0xD8}}},
	)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if gotReq.Reason != "typo in sector" || gotReq.Actor != testActor {
		t.Errorf("unexpected edit request: %+v", gotReq)
	}
	if gotReq.Fields["sectorNombre"] != "B" {
		t.Errorf("fields = %v", gotReq.Fields)
	}
	if _, ok := gotReq.Images[2]; !ok || len(gotReq.Images) != 1 {
		t.Errorf("images = %v", gotReq.Images)
	}
}

func TestRecordEdit_SealedConflict(t *testing.T) {
	t.Parallel()

	editor := &mockEditor{
		editFn: func(context.Context, models.Kind, string, service.EditRequest) (*models.Record, error) {
			return nil, models.ErrRecordSealed
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(&mockRecordRepo{}, editor, testLogger())
	r.POST("/records/:kind/:id/edit", h.Edit)

	w := doMultipart(r, "/records/inspection/rec-1/edit",
		map[string]string{"payload": `{"fields":{"a":"b"},"reason":"x"}`}, nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordEdit_EmptyReason(t *testing.T) {
	t.Parallel()

	editor := &mockEditor{
		editFn: func(context.Context, models.Kind, string, service.EditRequest) (*models.Record, error) {
			return nil, models.ErrEmptyReason
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(&mockRecordRepo{}, editor, testLogger())
	r.POST("/records/:kind/:id/edit", h.Edit)

	w := doMultipart(r, "/records/inspection/rec-1/edit",
		map[string]string{"payload": `{"fields":{"a":"b"},"reason":""}`}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecordDelete(t *testing.T) {
	t.Parallel()

	repo := &mockRecordRepo{
		deleteFn: func(context.Context, models.Kind, string) error {
			return nil
		},
	}

	r := newTestRouter()
	h := api.NewRecordHandler(repo, &mockEditor{}, testLogger())
	r.DELETE("/records/:kind/:id", h.Delete)

	w := doRequest(r, http.MethodDelete, "/records/minutes/rec-9", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
}
