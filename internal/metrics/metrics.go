// Package metrics provides Prometheus observability for the analysis
// service: HTTP traffic, pipeline outcomes, and external check results.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service registers.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AnalysesTotal    *prometheus.CounterVec
	QuestionsTotal   *prometheus.CounterVec
	CheckErrorsTotal *prometheus.CounterVec
	CompletionsTotal *prometheus.CounterVec

	PanicsTotal prometheus.Counter
}

// New creates a Metrics instance backed by its own registry, so repeated
// construction in tests never collides on the default registerer.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_http_requests_total",
			Help: "Total HTTP requests by route, method, and status code",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brandscope_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
		}, []string{"route"}),
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_analyses_total",
			Help: "Total analysis runs by outcome",
		}, []string{"outcome"}),
		QuestionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_questions_total",
			Help: "Total follow-up questions by outcome",
		}, []string{"outcome"}),
		CheckErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_check_errors_total",
			Help: "Research sub-check failures by check",
		}, []string{"check"}),
		CompletionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandscope_completions_total",
			Help: "Completion service calls by step and outcome",
		}, []string{"step", "outcome"}),
		PanicsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandscope_http_panics_total",
			Help: "Panics recovered in HTTP handlers",
		}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// RecordAnalysis records one analysis run outcome.
func (m *Metrics) RecordAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// RecordQuestion records one follow-up question outcome.
func (m *Metrics) RecordQuestion(outcome string) {
	if m == nil {
		return
	}
	m.QuestionsTotal.WithLabelValues(outcome).Inc()
}

// RecordCompletion records one completion service call outcome.
func (m *Metrics) RecordCompletion(step, outcome string) {
	if m == nil {
		return
	}
	m.CompletionsTotal.WithLabelValues(step, outcome).Inc()
}

// RecordCheckErrors bumps the failure counter for each failed sub-check.
func (m *Metrics) RecordCheckErrors(failed []string) {
	if m == nil {
		return
	}
	for _, check := range failed {
		m.CheckErrorsTotal.WithLabelValues(check).Inc()
	}
}

// RecordPanic records one recovered handler panic.
func (m *Metrics) RecordPanic() {
	if m == nil {
		return
	}
	m.PanicsTotal.Inc()
}
