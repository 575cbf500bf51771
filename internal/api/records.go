// Package api provides HTTP handlers for the obralog service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/metrics"
	"github.com/obralog/obralog/internal/models"
	"github.com/obralog/obralog/internal/service"
)

// RecordHandler serves record CRUD and edit endpoints.
type RecordHandler struct {
	repo   RecordRepository
	editor Editor
	log    *logrus.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(repo RecordRepository, editor Editor, log *logrus.Logger) *RecordHandler {
	return &RecordHandler{repo: repo, editor: editor, log: log}
}

// List handles GET /api/v1/records/:kind.
func (h *RecordHandler) List(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	projectID := c.Query("project_id")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	records, hasMore, err := h.repo.ListRecords(c.Request.Context(), kind, projectID, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing records")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "has_more": hasMore})
}

// Get handles GET /api/v1/records/:kind/:id.
func (h *RecordHandler) Get(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	rec, err := h.repo.GetRecord(c.Request.Context(), kind, recordID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "record not found")

			return
		}

		h.log.WithError(err).Error("getting record")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, rec)
}

// Create handles POST /api/v1/records/:kind (the intake hook).
func (h *RecordHandler) Create(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	var req models.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	rec, err := h.repo.CreateRecord(c.Request.Context(), kind, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateKey):
			respondError(c, http.StatusConflict, ErrCodeConflict, "record with this ID already exists")
		case errors.Is(err, models.ErrMissingProject):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
		default:
			h.log.WithError(err).Error("creating record")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Delete handles DELETE /api/v1/records/:kind/:id (the administrative
// deletion hook).
func (h *RecordHandler) Delete(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.DeleteRecord(c.Request.Context(), kind, recordID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "record not found")

			return
		}

		h.log.WithError(err).Error("deleting record")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.Status(http.StatusNoContent)
}

// FieldKeys handles GET /api/v1/records/:kind/fields.
func (h *RecordHandler) FieldKeys(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	keys, err := h.repo.FieldKeys(c.Request.Context(), kind)
	if err != nil {
		h.log.WithError(err).Error("listing field keys")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": keys})
}

// editPayload is the JSON part of an edit request's multipart form.
type editPayload struct {
	Fields map[string]any `json:"fields"`
	Reason string         `json:"reason"`
}

// Edit handles POST /api/v1/records/:kind/:id/edit. The body is a
// multipart form: a "payload" part with the JSON field edits and
// reason, plus optional image_0..image_5 file parts for slot
// replacements.
func (h *RecordHandler) Edit(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := getActor(c)
	if actor == "" {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "expected multipart form")

		return
	}

	var payload editPayload
	if values := form.Value["payload"]; len(values) > 0 {
		if err := json.Unmarshal([]byte(values[0]), &payload); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid payload JSON")

			return
		}
	}

	images, err := collectImageParts(form)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	rec, err := h.editor.Edit(c.Request.Context(), kind, recordID, service.EditRequest{
		Fields: payload.Fields,
		Images: images,
		Reason: payload.Reason,
		Actor:  actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyReason):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "a non-empty reason is required")
		case errors.Is(err, models.ErrRecordNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
		case errors.Is(err, models.ErrRecordSealed):
			respondError(c, http.StatusConflict, ErrCodeRecordSealed, "record is sealed and cannot be edited")
		case errors.Is(err, models.ErrVersionConflict):
			respondError(c, http.StatusConflict, ErrCodeVersionConflict, "record was modified concurrently, retry the edit")
		default:
			h.log.WithError(err).Error("editing record")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	metrics.RecordEdits.WithLabelValues(string(kind)).Inc()

	c.JSON(http.StatusOK, rec)
}

// collectImageParts reads image_<slot> file parts into uploads.
func collectImageParts(form *multipart.Form) (map[int]models.ImageUpload, error) {
	images := make(map[int]models.ImageUpload)

	for slot := 0; slot < models.MaxImageSlots; slot++ {
		files := form.File[fmt.Sprintf("image_%d", slot)]
		if len(files) == 0 {
			continue
		}

		upload, err := readFilePart(files[0])
		if err != nil {
			return nil, fmt.Errorf("reading image part for slot %d: %w", slot, err)
		}

		images[slot] = upload
	}

	if len(images) == 0 {
		return nil, nil
	}

	return images, nil
}

// readFilePart reads a multipart file into an ImageUpload.
func readFilePart(fh *multipart.FileHeader) (models.ImageUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return models.ImageUpload{}, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	data, err := io.ReadAll(f)
	if err != nil {
		return models.ImageUpload{}, err
	}

	return models.ImageUpload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
