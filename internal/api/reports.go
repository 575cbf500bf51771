package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/metrics"
	"github.com/obralog/obralog/internal/models"
)

// ReportHandler serves report generation.
type ReportHandler struct {
	reports ReportGenerator
	log     *logrus.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(reports ReportGenerator, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// Generate handles POST /api/v1/records/:kind/:id/report. The body
// carries the visit session context collected by the client.
func (h *ReportHandler) Generate(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	recordID := c.Param("id")
	if err := validatePathID(recordID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var visit models.VisitSession
	if err := c.ShouldBindJSON(&visit); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid visit session body")

		return
	}

	doc, err := h.reports.Generate(c.Request.Context(), kind, recordID, visit)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRecordNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
		case errors.Is(err, models.ErrReportNotReady):
			respondError(c, http.StatusConflict, ErrCodeReportNotReady, "record is not fully signed")
		default:
			h.log.WithError(err).Error("generating report")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	metrics.ReportsGenerated.WithLabelValues(string(kind)).Inc()

	c.JSON(http.StatusOK, doc)
}
