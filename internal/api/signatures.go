package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/metrics"
	"github.com/obralog/obralog/internal/models"
)

// SignatureHandler serves the signing endpoints.
type SignatureHandler struct {
	gate Gate
	log  *logrus.Logger
}

// NewSignatureHandler creates a SignatureHandler.
func NewSignatureHandler(gate Gate, log *logrus.Logger) *SignatureHandler {
	return &SignatureHandler{gate: gate, log: log}
}

// Status handles GET /api/v1/records/:kind/:id/signatures.
func (h *SignatureHandler) Status(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	status, err := h.gate.Status(c.Request.Context(), kind, recordID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "record not found")

			return
		}

		h.log.WithError(err).Error("reading gate status")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, status)
}

// Sign handles POST /api/v1/records/:kind/:id/signatures/:party. The
// body is a multipart form with a "signature" image part. The handler
// composes the gate's two-step flow: request a ticket, upload, commit.
func (h *SignatureHandler) Sign(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	party, err := models.ParseParty(c.Param("party"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unknown signature party")

		return
	}

	fh, err := c.FormFile("signature")
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "missing signature image part")

		return
	}

	upload, err := readFilePart(fh)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "unreadable signature image")

		return
	}

	ctx := c.Request.Context()

	ticket, err := h.gate.RequestSignature(ctx, kind, recordID, party)
	if err != nil {
		h.respondGateError(c, err)

		return
	}

	rec, err := h.gate.CommitSignature(ctx, ticket, upload)
	if err != nil {
		h.respondGateError(c, err)

		return
	}

	metrics.SignaturesCommitted.WithLabelValues(string(kind), string(party)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"record": rec,
		"state":  rec.SignatureState(),
	})
}

// respondGateError maps gate conditions to responses. Already-sealed is
// informational: the record reached its terminal state earlier, and the
// client should treat the flow as settled rather than failed.
func (h *SignatureHandler) respondGateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
	case errors.Is(err, models.ErrAlreadySealed):
		respondError(c, http.StatusConflict, ErrCodeAlreadySealed, "record is already fully signed")
	case errors.Is(err, models.ErrSlotOccupied):
		respondError(c, http.StatusConflict, ErrCodeSlotOccupied, "this party has already signed")
	default:
		h.log.WithError(err).Error("committing signature")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
