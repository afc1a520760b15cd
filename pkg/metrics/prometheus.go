// Package metrics provides Prometheus metrics for the matchmaking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matchmaking service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Partition search
	partitions         prometheus.Counter
	partitionErrors    *prometheus.CounterVec
	partitionLatency   prometheus.Histogram
	splitsEvaluated    prometheus.Counter
	bestSplitDiff      prometheus.Gauge
	resultExportErrors prometheus.Counter
	matchmakingRuns    prometheus.Counter

	// Rolling match log
	matchLogEntries      prometheus.Gauge
	matchLogEvictions    prometheus.Counter
	matchLogCorruptLines prometheus.Counter
	matchLogWriteErrors  prometheus.Counter
	matchLogWriteLatency prometheus.Histogram

	// Log monitor
	monitorRuns              prometheus.Counter
	monitorAlerts            *prometheus.CounterVec
	monitorAnomalies         prometheus.Gauge
	monitorUnbalancedPercent prometheus.Gauge
	monitorWinrateMean       prometheus.Gauge
	monitorWinrateStdDev     prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchbalance",
		subsystem:        "matchmaker",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Partition search
	m.partitions = auto.NewCounter(m.counter("partitions_total",
		"Total number of completed partition searches"))
	m.partitionErrors = auto.NewCounterVec(m.counter("partition_errors_total",
		"Total number of rejected partition requests by error kind"), []string{"kind"})
	m.partitionLatency = auto.NewHistogram(m.histogram("partition_latency_milliseconds",
		"Partition search latency in milliseconds", m.histogramBuckets))
	m.splitsEvaluated = auto.NewCounter(m.counter("splits_evaluated_total",
		"Total number of canonical splits scored"))
	m.bestSplitDiff = auto.NewGauge(m.gauge("best_split_diff",
		"Balance score |pA - 0.5| of the most recent winning split"))
	m.resultExportErrors = auto.NewCounter(m.counter("result_export_errors_total",
		"Total number of failed winning-split exports"))
	m.matchmakingRuns = auto.NewCounter(m.counter("matchmaking_runs_total",
		"Total number of matchmaking runs (predict, split, record)"))

	// Rolling match log
	m.matchLogEntries = auto.NewGauge(m.gauge("match_log_entries",
		"Current number of entries in the rolling match log"))
	m.matchLogEvictions = auto.NewCounter(m.counter("match_log_evictions_total",
		"Total number of entries evicted from the rolling match log"))
	m.matchLogCorruptLines = auto.NewCounter(m.counter("match_log_corrupt_lines_total",
		"Total number of malformed match log lines skipped on load"))
	m.matchLogWriteErrors = auto.NewCounter(m.counter("match_log_write_errors_total",
		"Total number of failed match log rewrites"))
	m.matchLogWriteLatency = auto.NewHistogram(m.histogram("match_log_write_latency_milliseconds",
		"Match log append and rewrite latency in milliseconds", m.histogramBuckets))

	// Log monitor
	m.monitorRuns = auto.NewCounter(m.counter("monitor_runs_total",
		"Total number of log monitor runs"))
	m.monitorAlerts = auto.NewCounterVec(m.counter("monitor_alerts_total",
		"Total number of monitor alerts by kind"), []string{"kind"})
	m.monitorAnomalies = auto.NewGauge(m.gauge("monitor_anomalies",
		"Anomalies found by the most recent monitor run"))
	m.monitorUnbalancedPercent = auto.NewGauge(m.gauge("monitor_unbalanced_percent",
		"Percentage of logged matches more skewed than the imbalance threshold"))
	m.monitorWinrateMean = auto.NewGauge(m.gauge("monitor_winrate_a_mean",
		"Mean team A win probability across the match log"))
	m.monitorWinrateStdDev = auto.NewGauge(m.gauge("monitor_winrate_a_stddev",
		"Population standard deviation of team A win probability across the match log"))

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counter("errors_by_type_total",
		"Total number of errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogram("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Partition Metrics Functions.

// RecordPartition records a completed search: latency, splits scored and the winning diff.
func RecordPartition(latencyMs float64, splits int, bestDiff float64) {
	globalManager.partitions.Inc()
	globalManager.partitionLatency.Observe(latencyMs)
	globalManager.splitsEvaluated.Add(float64(splits))
	globalManager.bestSplitDiff.Set(bestDiff)
}

// RecordPartitionError increments the rejected partition counter for kind.
func RecordPartitionError(kind string) {
	globalManager.partitionErrors.WithLabelValues(kind).Inc()
}

// RecordResultExportError increments the failed export counter.
func RecordResultExportError() {
	globalManager.resultExportErrors.Inc()
}

// RecordMatchmakingRun increments the matchmaking run counter.
func RecordMatchmakingRun() {
	globalManager.matchmakingRuns.Inc()
}

// Match Log Metrics Functions.

// UpdateMatchLogEntries sets the number of entries held by the match log.
func UpdateMatchLogEntries(count int) {
	globalManager.matchLogEntries.Set(float64(count))
}

// RecordMatchLogEviction increments the eviction counter.
func RecordMatchLogEviction() {
	globalManager.matchLogEvictions.Inc()
}

// RecordMatchLogCorruptLine increments the skipped line counter.
func RecordMatchLogCorruptLine() {
	globalManager.matchLogCorruptLines.Inc()
}

// RecordMatchLogWriteError increments the failed rewrite counter.
func RecordMatchLogWriteError() {
	globalManager.matchLogWriteErrors.Inc()
}

// RecordMatchLogWriteLatency records append and rewrite latency.
func RecordMatchLogWriteLatency(latencyMs float64) {
	globalManager.matchLogWriteLatency.Observe(latencyMs)
}

// Monitor Metrics Functions.

// RecordMonitorRun records the outcome of one monitor run. mean and stddev
// are only set when hasData is true.
func RecordMonitorRun(anomalies int, hasData bool, mean, stddev, percentUnbalanced float64) {
	globalManager.monitorRuns.Inc()
	globalManager.monitorAnomalies.Set(float64(anomalies))
	if !hasData {
		return
	}
	globalManager.monitorWinrateMean.Set(mean)
	globalManager.monitorWinrateStdDev.Set(stddev)
	globalManager.monitorUnbalancedPercent.Set(percentUnbalanced)
}

// RecordMonitorAlert increments the alert counter for kind.
func RecordMonitorAlert(kind string) {
	globalManager.monitorAlerts.WithLabelValues(kind).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
