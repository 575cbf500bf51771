package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/models"
)

// BlobHandler serves stored blob bytes and metadata. Blob URLs appear
// inside generated reports, so this endpoint is unauthenticated like
// health and metrics; paths are unguessable UUID-based storage keys.
type BlobHandler struct {
	blobs BlobFetcher
	log   *logrus.Logger
}

// NewBlobHandler creates a BlobHandler.
func NewBlobHandler(blobs BlobFetcher, log *logrus.Logger) *BlobHandler {
	return &BlobHandler{blobs: blobs, log: log}
}

// Get handles GET /api/v1/blobs/*path. With ?meta=1 it returns the
// blob's metadata instead of its bytes.
func (h *BlobHandler) Get(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "blob path must not be empty")

		return
	}

	if c.Query("meta") == "1" {
		info, err := h.blobs.GetMetadata(c.Request.Context(), path)
		if err != nil {
			h.respondBlobError(c, err)

			return
		}

		c.JSON(http.StatusOK, info)

		return
	}

	data, contentType, err := h.blobs.Fetch(c.Request.Context(), path)
	if err != nil {
		h.respondBlobError(c, err)

		return
	}

	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, contentType, data)
}

func (h *BlobHandler) respondBlobError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrBlobNotFound) {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "blob not found")

		return
	}

	h.log.WithError(err).Error("fetching blob")
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
