package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/dbpool"
	"github.com/obralog/obralog/internal/ws"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	pool      *dbpool.Pool
	hub       *ws.Hub
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(pool *dbpool.Pool, hub *ws.Hub, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		hub:       hub,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "connected",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.hub != nil {
		resp.WSClients = h.hub.ClientCount()
	}

	// Best-effort database ping (non-fatal for liveness).
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pool.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. Unlike liveness, a failed
// database check makes the service not ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"database": "ok"}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.HealthCheck(ctx); err != nil {
		h.log.WithError(err).Warn("readiness check failed")
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"status": checks["database"], "checks": checks})
}
