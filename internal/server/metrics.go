package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholardoc_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholardoc_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Verification metrics
	verificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholardoc_verifications_total",
			Help: "Total number of document verifications",
		},
		[]string{"document_type", "status"}, // status: approved, rejected, error
	)

	verificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholardoc_verification_duration_seconds",
			Help:    "Verification duration in seconds, OCR included",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 25, 50, 100},
		},
		[]string{"document_type"},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scholardoc_queue_depth",
			Help: "Number of verification tasks waiting for a worker",
		},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholardoc_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"}, // type: minute, hour, requests, data
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scholardoc_upload_size_bytes",
			Help:    "Size of uploaded documents in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 4 * 1024 * 1024, 16 * 1024 * 1024},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scholardoc_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholardoc_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
