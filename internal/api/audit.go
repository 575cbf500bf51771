package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuditHandler serves audit log reads.
type AuditHandler struct {
	audit AuditReader
	log   *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(audit AuditReader, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, log: log}
}

// ListForRecord handles GET /api/v1/records/:kind/:id/audit.
func (h *AuditHandler) ListForRecord(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	entries, err := h.audit.ListForRecord(c.Request.Context(), kind, recordID)
	if err != nil {
		h.log.WithError(err).Error("listing audit entries")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
