package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/dbpool"
	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/middleware"
	"github.com/obralog/obralog/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Records     RecordRepository
	Editor      Editor
	Gate        Gate
	Reports     ReportGenerator
	Audit       AuditReader
	Blobs       BlobFetcher
	Identity    domain.IdentityLookup
	CORSOrigins []string
	Version     string
}

// Router-level limits. The body cap leaves headroom for a full set of
// phone photos in one multipart edit.
const (
	maxBodySize = 15 << 20 // 15 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	records := NewRecordHandler(deps.Records, deps.Editor, log)
	signatures := NewSignatureHandler(deps.Gate, log)
	reports := NewReportHandler(deps.Reports, log)
	audit := NewAuditHandler(deps.Audit, log)
	blobs := NewBlobHandler(deps.Blobs, log)

	// Health, readiness, and blob downloads are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)
	api.GET("/blobs/*path", blobs.Get)

	// All other API routes require authentication.
	api.Use(middleware.AuthMiddleware(deps.Identity, log))

	// Records.
	api.GET("/records/:kind", records.List)
	api.POST("/records/:kind", records.Create)
	api.GET("/records/:kind/fields", records.FieldKeys)
	api.GET("/records/:kind/:id", records.Get)
	api.DELETE("/records/:kind/:id", records.Delete)
	api.POST("/records/:kind/:id/edit", records.Edit)

	// Signatures.
	api.GET("/records/:kind/:id/signatures", signatures.Status)
	api.POST("/records/:kind/:id/signatures/:party", signatures.Sign)

	// Reports.
	api.POST("/records/:kind/:id/report", reports.Generate)

	// Audit.
	api.GET("/records/:kind/:id/audit", audit.ListForRecord)

	// WebSocket endpoint.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
