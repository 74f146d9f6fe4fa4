package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Inference metrics
	InferenceCalls    *prometheus.CounterVec
	InferenceDuration *prometheus.HistogramVec
	InferenceErrors   *prometheus.CounterVec

	// Analysis metrics
	AnalysisOutcomes *prometheus.CounterVec
	PromptLength     prometheus.Histogram

	startTime time.Time

	// Snapshot for the JSON health endpoint
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	TotalRequests   int64   `json:"total_requests"`
	TotalErrors     int64   `json:"total_errors"`
	InferenceCalls  int64   `json:"inference_calls"`
	InferenceErrors int64   `json:"inference_errors"`
	Fallbacks       int64   `json:"fallbacks"`
	TotalDuration   float64 `json:"-"`
	AvgDurationMS   float64 `json:"avg_duration_ms"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreams_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dreams_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dreams_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dreams_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		InferenceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreams_inference_calls_total",
				Help: "Total number of inference binding calls",
			},
			[]string{"binding", "model", "status"},
		),
		InferenceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dreams_inference_duration_seconds",
				Help:    "Inference call duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"binding", "model"},
		),
		InferenceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreams_inference_errors_total",
				Help: "Total number of inference errors",
			},
			[]string{"binding", "model", "error_type"},
		),

		AnalysisOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dreams_analysis_outcomes_total",
				Help: "Dream analysis requests by outcome",
			},
			[]string{"outcome"},
		),
		PromptLength: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dreams_prompt_length_chars",
				Help:    "Length of accepted dream prompts in characters",
				Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "dreams_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves this collector's registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordInference records one binding call
func (m *Metrics) RecordInference(binding, model, status string, duration time.Duration) {
	m.InferenceCalls.WithLabelValues(binding, model, status).Inc()
	m.InferenceDuration.WithLabelValues(binding, model).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.InferenceCalls++
	m.mu.Unlock()
}

// RecordInferenceError records a binding failure
func (m *Metrics) RecordInferenceError(binding, model, errorType string) {
	m.InferenceErrors.WithLabelValues(binding, model, errorType).Inc()

	m.mu.Lock()
	m.snapshot.InferenceErrors++
	m.mu.Unlock()
}

// RecordOutcome records how an analysis request ended
func (m *Metrics) RecordOutcome(outcome string) {
	m.AnalysisOutcomes.WithLabelValues(outcome).Inc()

	if outcome == OutcomeFallback {
		m.mu.Lock()
		m.snapshot.Fallbacks++
		m.mu.Unlock()
	}
}

// ObservePromptLength records the length of an accepted prompt
func (m *Metrics) ObservePromptLength(chars int) {
	m.PromptLength.Observe(float64(chars))
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	snap := m.snapshot
	m.mu.RUnlock()

	if snap.TotalRequests > 0 {
		snap.AvgDurationMS = snap.TotalDuration / float64(snap.TotalRequests) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
