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

func TestSignatureSign_Commits(t *testing.T) {
	t.Parallel()

	sigPath := "signatures/abc.jpg"
	gate := &mockGate{
		requestFn: func(context.Context, models.Kind, string, models.SignatureParty) (*service.SignatureTicket, error) {
			return &service.SignatureTicket{}, nil
		},
		commitFn: func(_ context.Context, _ *service.SignatureTicket, upload models.ImageUpload) (*models.Record, error) {
			if len(upload.Data) == 0 {
				t.Error("signature image bytes were not forwarded")
			}

			return &models.Record{ID: "rec-1", SignatureCompany: &sigPath}, nil
		},
	}

	r := newTestRouter()
	h := api.NewSignatureHandler(gate, testLogger())
	r.POST("/records/:kind/:id/signatures/:party", h.Sign)

	w := doMultipart(r, "/records/inspection/rec-1/signatures/company", nil,
		[]filePart{{field: "signature", filename: "firma.png", data: []byte{0x89, 0x50}}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		State models.SignatureState `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.State != models.StatePartiallySigned {
		t.Errorf("state = %q", resp.State)
	}
}

func TestSignatureSign_AlreadySealed(t *testing.T) {
	t.Parallel()

	gate := &mockGate{
		requestFn: func(context.Context, models.Kind, string, models.SignatureParty) (*service.SignatureTicket, error) {
			return nil, models.ErrAlreadySealed
		},
	}

	r := newTestRouter()
	h := api.NewSignatureHandler(gate, testLogger())
	r.POST("/records/:kind/:id/signatures/:party", h.Sign)

	w := doMultipart(r, "/records/inspection/rec-1/signatures/client", nil,
		[]filePart{{field: "signature", filename: "firma.png", data: []byte{1}}})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["code"] != "already_sealed" {
		t.Errorf("code = %q, want already_sealed", resp["code"])
	}
}

func TestSignatureSign_SlotOccupied(t *testing.T) {
	t.Parallel()

	gate := &mockGate{
		requestFn: func(context.Context, models.Kind, string, models.SignatureParty) (*service.SignatureTicket, error) {
			return nil, models.ErrSlotOccupied
		},
	}

	r := newTestRouter()
	h := api.NewSignatureHandler(gate, testLogger())
	r.POST("/records/:kind/:id/signatures/:party", h.Sign)

	w := doMultipart(r, "/records/inspection/rec-1/signatures/company", nil,
		[]filePart{{field: "signature", filename: "firma.png", data: []byte{1}}})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSignatureSign_UnknownParty(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewSignatureHandler(&mockGate{}, testLogger())
	r.POST("/records/:kind/:id/signatures/:party", h.Sign)

	w := doMultipart(r, "/records/inspection/rec-1/signatures/notary", nil,
		[]filePart{{field: "signature", filename: "firma.png", data: []byte{1}}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSignatureStatus(t *testing.T) {
	t.Parallel()

	gate := &mockGate{
		statusFn: func(context.Context, models.Kind, string) (*service.GateStatus, error) {
			return &service.GateStatus{State: models.StateSealed, Company: true, Client: true}, nil
		},
	}

	r := newTestRouter()
	h := api.NewSignatureHandler(gate, testLogger())
	r.GET("/records/:kind/:id/signatures", h.Status)

	w := doRequest(r, http.MethodGet, "/records/minutes/rec-1/signatures", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var status service.GateStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if status.State != models.StateSealed || !status.Company || !status.Client {
		t.Errorf("status = %+v", status)
	}
}
