// Package metrics provides Prometheus metrics for the bestxi analysis service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Analysis
	analysesTotal     prometheus.Counter
	analysisFailures  *prometheus.CounterVec
	awaitingInput     prometheus.Counter
	analysisLatency   prometheus.Histogram
	loadLatency       prometheus.Histogram
	deliveriesRows    prometheus.Gauge
	matchesRows       prometheus.Gauge
	distinctBatters   prometheus.Gauge
	distinctBowlers   prometheus.Gauge
	distinctAllRounds prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec
	uploadBytes         prometheus.Histogram

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "bestxi",
		subsystem:      "analyzer",
		latencyBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		constLabels:    prometheus.Labels{},
		registry:       prometheus.DefaultRegisterer,
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

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.analysesTotal = auto.NewCounter(m.counterOpts("analyses_total",
		"Total number of completed analyses"))
	m.analysisFailures = auto.NewCounterVec(m.counterOpts("analysis_failures_total",
		"Analyses that ended in an error, by kind"), []string{"kind"})
	m.awaitingInput = auto.NewCounter(m.counterOpts("awaiting_input_total",
		"Requests answered with the awaiting-input state"))
	m.analysisLatency = auto.NewHistogram(m.histogramOpts("analysis_latency_milliseconds",
		"Time spent aggregating and ranking one deliveries table", m.latencyBuckets))
	m.loadLatency = auto.NewHistogram(m.histogramOpts("load_latency_milliseconds",
		"Time spent reading and normalizing both CSV inputs", m.latencyBuckets))
	m.deliveriesRows = auto.NewGauge(m.gaugeOpts("deliveries_rows",
		"Delivery rows in the most recent analysis"))
	m.matchesRows = auto.NewGauge(m.gaugeOpts("matches_rows",
		"Match rows in the most recent analysis"))
	m.distinctBatters = auto.NewGauge(m.gaugeOpts("distinct_batters",
		"Distinct batters in the most recent analysis"))
	m.distinctBowlers = auto.NewGauge(m.gaugeOpts("distinct_bowlers",
		"Distinct bowlers in the most recent analysis"))
	m.distinctAllRounds = auto.NewGauge(m.gaugeOpts("distinct_all_rounders",
		"Players who both batted and bowled in the most recent analysis"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.rateLimited = auto.NewCounterVec(m.counterOpts("http_rate_limited_total",
		"Requests rejected by the rate limiter"), []string{"endpoint"})
	m.uploadBytes = auto.NewHistogram(m.histogramOpts("upload_bytes",
		"Size of accepted multipart uploads in bytes",
		prometheus.ExponentialBuckets(1024, 4, 10)))

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by HTTP endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))
}

// RecordAnalysis records a completed analysis and the sizes it saw.
func RecordAnalysis(latencyMs float64, deliveries, matches, batters, bowlers, allRounders int) {
	globalManager.analysesTotal.Inc()
	globalManager.analysisLatency.Observe(latencyMs)
	globalManager.deliveriesRows.Set(float64(deliveries))
	globalManager.matchesRows.Set(float64(matches))
	globalManager.distinctBatters.Set(float64(batters))
	globalManager.distinctBowlers.Set(float64(bowlers))
	globalManager.distinctAllRounds.Set(float64(allRounders))
}

// RecordAnalysisFailure counts a failed analysis by kind (schema, invalid_value, ...).
func RecordAnalysisFailure(kind string) {
	globalManager.analysisFailures.WithLabelValues(kind).Inc()
}

// RecordAwaitingInput counts a request that lacked one of the inputs.
func RecordAwaitingInput() {
	globalManager.awaitingInput.Inc()
}

// RecordLoadLatency records CSV load time in milliseconds.
func RecordLoadLatency(latencyMs float64) {
	globalManager.loadLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request refused by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordUploadBytes records the size of an accepted upload.
func RecordUploadBytes(n int64) {
	globalManager.uploadBytes.Observe(float64(n))
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
