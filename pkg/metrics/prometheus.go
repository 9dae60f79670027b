// Package metrics provides Prometheus metrics for the rigcheck service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// fpsBuckets spans the classification bands.
var fpsBuckets = []float64{5, 15, 30, 45, 60, 90, 120, 165, 240, 360}

// Manager manages all Prometheus metrics for the rigcheck service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Estimation
	estimations      *prometheus.CounterVec
	estimatedFPS     prometheus.Histogram
	unknownGames     prometheus.Counter
	graphRequests    prometheus.Counter
	graphCacheHits   prometheus.Counter
	upgradePlans     *prometheus.CounterVec
	upgradeComponent *prometheus.CounterVec

	// Catalog
	catalogComponents *prometheus.GaugeVec
	catalogGames      prometheus.Gauge
	snapshotVersion   prometheus.Gauge
	adminMutations    *prometheus.CounterVec
	reloads           *prometheus.CounterVec

	// History queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec
	workerCount        prometheus.Gauge
	historyWritten     prometheus.Counter
	historyDuplicates  prometheus.Counter
	historyLatency     prometheus.Histogram

	// Store
	storeLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rigcheck",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.estimations = m.counterVec("estimations_total", "FPS estimations by resulting status", "status")
	m.estimatedFPS = m.histogram("estimated_fps", "Distribution of estimated FPS", fpsBuckets)
	m.unknownGames = m.counter("unknown_game_total", "Requests naming a game that is not registered")
	m.graphRequests = m.counter("graph_requests_total", "Performance graph requests")
	m.graphCacheHits = m.counter("graph_cache_hits_total", "Performance graphs served from cache")
	m.upgradePlans = m.counterVec("upgrade_plans_total", "Upgrade plans by shopper budget", "budget")
	m.upgradeComponent = m.counterVec("upgrade_recommendations_total", "Recommended components by category", "category")

	m.catalogComponents = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "catalog_components", Help: "Catalog entries per component type",
	}, []string{"type"})
	m.catalogGames = m.gauge("catalog_games", "Registered games")
	m.snapshotVersion = m.gauge("snapshot_version", "Version of the published catalog snapshot")
	m.adminMutations = m.counterVec("admin_mutations_total", "Admin catalog edits", "entity", "op")
	m.reloads = m.counterVec("reloads_total", "Snapshot reloads by result", "result")

	m.queueSize = m.gauge("history_queue_size", "Check records waiting to be persisted")
	m.queueCapacity = m.gauge("history_queue_capacity", "Capacity of the check history queue")
	m.queueEnqueued = m.counter("history_queue_enqueued_total", "Check records enqueued")
	m.queueDequeued = m.counter("history_queue_dequeued_total", "Check records dequeued")
	m.queueEnqueueErrors = m.counterVec("history_queue_enqueue_errors_total", "Check records dropped at enqueue", "reason")
	m.workerCount = m.gauge("history_workers", "History writer goroutines")
	m.historyWritten = m.counter("history_written_total", "Check records persisted")
	m.historyDuplicates = m.counter("history_duplicates_total", "Check records skipped as retries of an earlier request")
	m.historyLatency = m.histogram("history_write_latency_milliseconds", "Latency of persisting one check record", m.histogramBuckets)

	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Store operation latency", "op")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")
	m.errorsByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")

	m.memoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.goroutineCount = m.gauge("system_goroutines", "Live goroutines")
	m.gcPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause", m.histogramBuckets)
}

// RecordEstimation records one FPS estimate and its status.
func RecordEstimation(status string, fps int) {
	globalManager.estimations.WithLabelValues(status).Inc()
	globalManager.estimatedFPS.Observe(float64(fps))
}

// RecordUnknownGame records a request for an unregistered title.
func RecordUnknownGame() {
	globalManager.unknownGames.Inc()
}

// RecordGraphRequest records a performance graph request.
func RecordGraphRequest(cached bool) {
	globalManager.graphRequests.Inc()
	if cached {
		globalManager.graphCacheHits.Inc()
	}
}

// RecordUpgradePlan records a plan and the categories it recommends.
func RecordUpgradePlan(budget string, categories []string) {
	globalManager.upgradePlans.WithLabelValues(budget).Inc()
	for _, c := range categories {
		globalManager.upgradeComponent.WithLabelValues(c).Inc()
	}
}

// UpdateCatalogComponents sets the number of entries of one type.
func UpdateCatalogComponents(componentType string, count int) {
	globalManager.catalogComponents.WithLabelValues(componentType).Set(float64(count))
}

// UpdateCatalogGames sets the number of registered games.
func UpdateCatalogGames(count int) {
	globalManager.catalogGames.Set(float64(count))
}

// UpdateSnapshotVersion sets the published snapshot version.
func UpdateSnapshotVersion(version uint64) {
	globalManager.snapshotVersion.Set(float64(version))
}

// RecordAdminMutation records an admin edit, e.g. ("component", "delete").
func RecordAdminMutation(entity, op string) {
	globalManager.adminMutations.WithLabelValues(entity, op).Inc()
}

// RecordReload records a snapshot reload.
func RecordReload(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	globalManager.reloads.WithLabelValues(result).Inc()
}

// UpdateQueueSize sets the current history queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the history queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue records a successful enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue records a dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError records a dropped record.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of history writers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHistoryWritten records a persisted check and its latency.
func RecordHistoryWritten(latencyMs float64) {
	globalManager.historyWritten.Inc()
	globalManager.historyLatency.Observe(latencyMs)
}

// RecordHistoryDuplicate records a check skipped as a retry.
func RecordHistoryDuplicate() {
	globalManager.historyDuplicates.Inc()
}

// RecordStoreLatency records the latency of a store operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.gcPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry that backs the global metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
