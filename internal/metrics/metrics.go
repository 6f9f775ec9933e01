package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics
var (
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_pipeline_runs_total",
			Help: "Total number of pipeline runs by terminal status",
		},
		[]string{"status"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_catalog_pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"},
	)

	PipelineRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_catalog_pipeline_run_duration_seconds",
			Help:    "End-to-end pipeline run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)
)

// Coordinator metrics
var (
	CoordinatorOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_coordinator_outcomes_total",
			Help: "Total number of coordinator decisions by outcome (inserted, updated, unchanged, skipped)",
		},
		[]string{"outcome"},
	)

	EventsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_events_logged_total",
			Help: "Total number of event log entries written by kind",
		},
		[]string{"kind"},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_catalog_scan_runs_total",
			Help: "Total number of bulk scan runs",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_scan_last_run_duration_seconds",
			Help: "Duration of the last bulk scan in seconds",
		},
	)

	ScanCandidatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_catalog_scan_candidates_total",
			Help: "Total number of candidate files yielded by the directory scanner",
		},
	)

	ScanEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_catalog_scan_entries_skipped_total",
			Help: "Total number of tree entries skipped due to access or I/O errors",
		},
	)

	ScanIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_scan_running",
			Help: "Whether a bulk scan is currently running (1 = running, 0 = idle)",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_watcher_events_total",
			Help: "Total number of filesystem notifications received by type",
		},
		[]string{"type"},
	)

	WatcherQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_watcher_queue_depth",
			Help: "Current depth of the watcher work queue",
		},
	)

	WatcherDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_catalog_watcher_drops_total",
			Help: "Total number of work items dropped because the watcher queue was full",
		},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_catalog_watcher_errors_total",
			Help: "Total number of watcher subscription errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_watched_directories",
			Help: "Number of directories currently registered with the filesystem watcher",
		},
	)
)

// Catalog store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_db_queries_total",
			Help: "Total number of catalog store queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_catalog_db_query_duration_seconds",
			Help:    "Catalog store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_db_connections_open",
			Help: "Number of open catalog store connections",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_fs_retry_attempts_total",
			Help: "Filesystem operation retries after stale NFS handles",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_fs_retry_success_total",
			Help: "Filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_fs_retry_failures_total",
			Help: "Filesystem operations that exhausted all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_catalog_fs_stale_errors_total",
			Help: "Stale NFS file handle errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_catalog_fs_op_duration_seconds",
			Help:    "Filesystem operation duration including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"operation", "volume"},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_catalog_memory_paused",
			Help: "Whether processing is paused for memory backpressure (0 or 1)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_catalog_memory_gc_pauses_total",
			Help: "Forced garbage collections triggered by memory backpressure",
		},
	)
)
