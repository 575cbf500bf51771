// Package metrics defines Prometheus metrics for the obralog service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obralog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obralog_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obralog_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	RecordEdits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obralog_record_edits_total",
			Help: "Audited record edits by kind",
		},
		[]string{"kind"},
	)

	SignaturesCommitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obralog_signatures_committed_total",
			Help: "Committed signatures by kind and party",
		},
		[]string{"kind", "party"},
	)

	ReportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obralog_reports_generated_total",
			Help: "Generated reports by kind",
		},
		[]string{"kind"},
	)

	ImageUploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "obralog_image_upload_bytes",
			Help:    "Size of uploaded images after compression",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "obralog_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		RecordEdits, SignaturesCommitted, ReportsGenerated,
		ImageUploadBytes, WSConnections,
	)
}
