package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photogallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Bridge metrics
var (
	BridgeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_bridge_calls_total",
			Help: "Total number of bridge method calls",
		},
		[]string{"method", "status"},
	)

	BridgeCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photogallery_bridge_call_duration_seconds",
			Help:    "Bridge method call duration in seconds, including queue wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	WorkerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photogallery_worker_queue_depth",
			Help: "Number of tasks waiting for the worker",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_thumbnail_cache_hits_total",
			Help: "Thumbnail cache hits by layer",
		},
		[]string{"layer"}, // "memory", "disk"
	)

	ThumbnailsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_thumbnails_rendered_total",
			Help: "Thumbnails rendered by medium type and outcome",
		},
		[]string{"medium_type", "status"},
	)
)

// Scanner metrics
var (
	ScannerFilesIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photogallery_scanner_files_indexed_total",
			Help: "Files written to the media index by medium type",
		},
		[]string{"medium_type"},
	)

	ScannerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photogallery_scanner_runs_total",
			Help: "Total number of library scans",
		},
	)

	ScannerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photogallery_scanner_running",
			Help: "Whether a library scan is running (1 = running, 0 = idle)",
		},
	)
)
