package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metadata cache metrics
var (
	MetadataCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_metadata_cache_hits_total",
			Help: "Metadata lookups satisfied by the mtime-keyed cache",
		},
	)

	MetadataCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_metadata_cache_misses_total",
			Help: "Metadata lookups that required a fresh extraction",
		},
	)

	MetadataExtractErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_metadata_extract_errors_total",
			Help: "Metadata extractions that failed outright",
		},
	)
)

// Thumbnail and sweep metrics
var (
	ThumbnailsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_thumbnails_generated_total",
			Help: "Thumbnails generated, by media type",
		},
		[]string{"type"},
	)

	ThumbnailErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_thumbnail_errors_total",
			Help: "Thumbnail generations that failed",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_sweep_duration_seconds",
			Help:    "Duration of full pre-generation sweeps",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_sweeps_total",
			Help: "Pre-generation sweeps, by outcome",
		},
		[]string{"trigger"},
	)
)
