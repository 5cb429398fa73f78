package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote call metrics
	remoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_requests_total",
			Help: "Total number of remote service requests",
		},
		[]string{"operation", "status", "service"},
	)

	remoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_request_duration_seconds",
			Help:    "Duration of remote service requests in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"operation", "service"},
	)

	// Screening workflow metrics
	screeningUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_uploads_total",
			Help: "Total number of screening image uploads",
		},
		[]string{"status", "service"},
	)

	screeningOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_outcomes_total",
			Help: "Total number of terminal screening outcomes",
		},
		[]string{"outcome", "service"},
	)

	// Extraction metrics
	extractionAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_attempts_total",
			Help: "Total number of identity document extraction attempts",
		},
		[]string{"result", "service"},
	)

	// Capture metrics
	captureAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capture_attempts_total",
			Help: "Total number of media capture attempts",
		},
		[]string{"source", "result", "service"},
	)

	// Authentication metrics
	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"method", "status", "service"},
	)
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	serviceName string
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(serviceName string) *MetricsCollector {
	// Register metrics
	prometheus.MustRegister(
		remoteRequestsTotal,
		remoteRequestDuration,
		screeningUploadsTotal,
		screeningOutcomesTotal,
		extractionAttemptsTotal,
		captureAttemptsTotal,
		authAttemptsTotal,
	)

	return &MetricsCollector{
		serviceName: serviceName,
	}
}

// RecordRemoteRequest records remote service request metrics
func (m *MetricsCollector) RecordRemoteRequest(operation, status string, duration time.Duration) {
	remoteRequestsTotal.WithLabelValues(operation, status, m.serviceName).Inc()
	remoteRequestDuration.WithLabelValues(operation, m.serviceName).Observe(duration.Seconds())
}

// RecordUpload records a screening image upload attempt
func (m *MetricsCollector) RecordUpload(status string) {
	screeningUploadsTotal.WithLabelValues(status, m.serviceName).Inc()
}

// RecordOutcome records a terminal screening outcome
func (m *MetricsCollector) RecordOutcome(outcome string) {
	screeningOutcomesTotal.WithLabelValues(outcome, m.serviceName).Inc()
}

// RecordExtraction records an identity document extraction attempt
func (m *MetricsCollector) RecordExtraction(result string) {
	extractionAttemptsTotal.WithLabelValues(result, m.serviceName).Inc()
}

// RecordCapture records a media capture attempt
func (m *MetricsCollector) RecordCapture(source, result string) {
	captureAttemptsTotal.WithLabelValues(source, result, m.serviceName).Inc()
}

// RecordAuthAttempt records authentication attempt metrics
func (m *MetricsCollector) RecordAuthAttempt(method, status string) {
	authAttemptsTotal.WithLabelValues(method, status, m.serviceName).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
