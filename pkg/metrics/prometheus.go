// Package metrics provides Prometheus metrics for the chloride prediction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core business metrics
	passesTotal        prometheus.Counter
	validationFailures *prometheus.CounterVec
	predictionsTotal   prometheus.Counter
	predictionErrors   prometheus.Counter
	predictorLatency   prometheus.Histogram
	sweepTruncations   prometheus.Counter

	// Side-channel metrics
	historyWrites prometheus.Counter
	historyErrors prometheus.Counter
	exportsTotal  *prometheus.CounterVec

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scpredict",
		subsystem:        "svc",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.passesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "passes_total",
		Help:      "Total number of computation passes that reached the sweep stage",
	})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Total number of mix designs rejected, by gate",
	}, []string{"gate"})

	m.predictionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of successful predictor calls",
	})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_errors_total",
		Help:      "Total number of failed predictor calls",
	})

	m.predictorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictor_latency_milliseconds",
		Help:      "Histogram of model service call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sweepTruncations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_truncations_total",
		Help:      "Total number of sweeps aborted by a prediction failure",
	})

	m.historyWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_writes_total",
		Help:      "Total number of passes recorded to history",
	})

	m.historyErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_errors_total",
		Help:      "Total number of failed history writes",
	})

	m.exportsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exports_total",
		Help:      "Total number of generated export artifacts, by format",
	}, []string{"format"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording through the global manager.

// RecordPass counts a pass that passed both gates and reached the sweep.
func RecordPass() {
	if globalManager.enabled {
		globalManager.passesTotal.Inc()
	}
}

// RecordValidationFailure counts a rejected mix design by gate name.
func RecordValidationFailure(gate string) {
	if globalManager.enabled {
		globalManager.validationFailures.WithLabelValues(gate).Inc()
	}
}

// RecordPrediction counts one successful predictor call.
func RecordPrediction() {
	if globalManager.enabled {
		globalManager.predictionsTotal.Inc()
	}
}

// RecordPredictionError counts one failed predictor call.
func RecordPredictionError() {
	if globalManager.enabled {
		globalManager.predictionErrors.Inc()
	}
}

// RecordPredictorLatency records one model service call duration in ms.
func RecordPredictorLatency(ms float64) {
	if globalManager.enabled {
		globalManager.predictorLatency.Observe(ms)
	}
}

// RecordSweepTruncation counts a sweep aborted mid-way.
func RecordSweepTruncation() {
	if globalManager.enabled {
		globalManager.sweepTruncations.Inc()
	}
}

// RecordHistoryWrite counts one recorded pass.
func RecordHistoryWrite() {
	if globalManager.enabled {
		globalManager.historyWrites.Inc()
	}
}

// RecordHistoryError counts one failed history write.
func RecordHistoryError() {
	if globalManager.enabled {
		globalManager.historyErrors.Inc()
	}
}

// RecordExport counts one generated artifact ("xlsx" or "pdf").
func RecordExport(format string) {
	if globalManager.enabled {
		globalManager.exportsTotal.WithLabelValues(format).Inc()
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records one HTTP request duration in ms.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// UpdateSystemMemoryUsage sets the current allocated memory.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}
