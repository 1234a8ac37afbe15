package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ingestion
	sessionsIngested *prometheus.CounterVec
	shotsIngested    *prometheus.CounterVec
	rowsSkipped      *prometheus.CounterVec
	fieldErrors      *prometheus.CounterVec
	headerMismatches *prometheus.CounterVec
	ingestLatency    *prometheus.HistogramVec
	uploadsDuplicate prometheus.Counter

	// Statistics
	statsComputations prometheus.Counter
	statsLatency      prometheus.Histogram

	// Summary queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Summary workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store
	storedSessions prometheus.Gauge
	storeLatency   *prometheus.HistogramVec
	storeErrors    *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fairway",
		subsystem:        "ingest",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.sessionsIngested = auto.NewCounterVec(
		m.counterOpts("sessions_total", "Ingestion attempts by source and outcome"),
		[]string{"source", "outcome"},
	)
	m.shotsIngested = auto.NewCounterVec(
		m.counterOpts("shots_total", "Shots persisted by source"),
		[]string{"source"},
	)
	m.rowsSkipped = auto.NewCounterVec(
		m.counterOpts("rows_skipped_total", "Data rows skipped by source and reason"),
		[]string{"source", "reason"},
	)
	m.fieldErrors = auto.NewCounterVec(
		m.counterOpts("field_errors_total", "Individual cells that failed to parse"),
		[]string{"source"},
	)
	m.headerMismatches = auto.NewCounterVec(
		m.counterOpts("header_mismatches_total", "Header labels that disagree with the positional column contract"),
		[]string{"source"},
	)
	m.ingestLatency = auto.NewHistogramVec(
		m.histogramOpts("duration_milliseconds", "Time to ingest one file in milliseconds"),
		[]string{"source"},
	)
	m.uploadsDuplicate = auto.NewCounter(m.counterOpts("uploads_duplicate_total", "Uploads rejected as duplicates"))

	m.statsComputations = auto.NewCounter(m.counterOpts("stats_computations_total", "Statistics computations"))
	m.statsLatency = auto.NewHistogram(m.histogramOpts("stats_latency_milliseconds", "Statistics computation latency in milliseconds"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Pending summary jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Summary queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Summary queue size / capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Summary jobs enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Summary jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Summary jobs dropped because the queue was full or closed"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured summary workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Summary workers currently processing a job"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Summary job processing latency in milliseconds"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Summary jobs that failed"))

	m.storedSessions = auto.NewGauge(m.gaugeOpts("stored_sessions", "Sessions currently held by the store"))
	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Store operation latency in milliseconds"),
		[]string{"op"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Store operation failures"),
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error code"),
		[]string{"endpoint", "method", "error_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Most recent GC pause in milliseconds"))
}

// Ingestion

// RecordSessionIngested counts an ingestion attempt; outcome is "persisted" or "rejected".
func RecordSessionIngested(source, outcome string) {
	globalManager.sessionsIngested.WithLabelValues(source, outcome).Inc()
}

// RecordShotsIngested adds n persisted shots for source.
func RecordShotsIngested(source string, n int) {
	globalManager.shotsIngested.WithLabelValues(source).Add(float64(n))
}

// RecordRowSkipped counts one skipped data row.
func RecordRowSkipped(source, reason string) {
	globalManager.rowsSkipped.WithLabelValues(source, reason).Inc()
}

// RecordFieldErrors adds n cell parse failures for source.
func RecordFieldErrors(source string, n int) {
	globalManager.fieldErrors.WithLabelValues(source).Add(float64(n))
}

// RecordHeaderMismatches adds n header mismatches for source.
func RecordHeaderMismatches(source string, n int) {
	globalManager.headerMismatches.WithLabelValues(source).Add(float64(n))
}

// RecordIngestLatency observes the time spent on one file.
func RecordIngestLatency(source string, latencyMs float64) {
	globalManager.ingestLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordUploadDuplicate counts an upload rejected by the deduper.
func RecordUploadDuplicate() {
	globalManager.uploadsDuplicate.Inc()
}

// Statistics

// RecordStatsComputation counts one aggregation and its latency.
func RecordStatsComputation(latencyMs float64) {
	globalManager.statsComputations.Inc()
	globalManager.statsLatency.Observe(latencyMs)
}

// Queue

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets size/capacity.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Workers

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency observes one job's processing time.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Store

// UpdateStoredSessions sets the number of stored sessions.
func UpdateStoredSessions(count int) {
	globalManager.storedSessions.Set(float64(count))
}

// RecordStoreLatency observes one store operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// HTTP

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one request's duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorCode string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorCode).Inc()
}

// System

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the latest GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
