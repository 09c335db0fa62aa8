// Package metrics exposes Prometheus instrumentation for the chatbot.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventbot"

// LLM call purposes.
const (
	PurposeGenerate = "generate"
	PurposeFormat   = "format"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	pipelineOutcomes *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	llmCalls         *prometheus.CounterVec
	llmErrors        *prometheus.CounterVec
	llmDuration      *prometheus.HistogramVec
	datastoreQueries *prometheus.CounterVec
	datastoreLatency prometheus.Histogram
}

// New creates collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: outcome (greeting, farewell, not_a_query, generation_failure,
		// data_access_failure, no_results, answered, panic)
		pipelineOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "outcomes_total",
			Help:      "Handled utterances by terminal outcome",
		}, []string{"outcome"}),

		pipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end utterance handling latency",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),

		// Labels: provider, purpose (generate, format), status (ok, error)
		llmCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Completion calls by provider, purpose and status",
		}, []string{"provider", "purpose", "status"}),

		llmErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "errors_total",
			Help:      "Completion failures by provider and classified error type",
		}, []string{"provider", "error_type"}),

		llmDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Completion call latency",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "purpose"}),

		// Labels: status (ok, error)
		datastoreQueries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "queries_total",
			Help:      "Executed event queries by status",
		}, []string{"status"}),

		datastoreLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "datastore",
			Name:      "query_duration_seconds",
			Help:      "Event query latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOutcome records one handled utterance.
func (m *Metrics) RecordOutcome(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.pipelineOutcomes.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(d.Seconds())
}

// RecordLLMCall records one completion call. errorType is empty on success.
func (m *Metrics) RecordLLMCall(provider, purpose string, d time.Duration, errorType string) {
	if m == nil {
		return
	}
	status := "ok"
	if errorType != "" {
		status = "error"
		m.llmErrors.WithLabelValues(provider, errorType).Inc()
	}
	m.llmCalls.WithLabelValues(provider, purpose, status).Inc()
	m.llmDuration.WithLabelValues(provider, purpose).Observe(d.Seconds())
}

// RecordQuery records one datastore query.
func (m *Metrics) RecordQuery(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.datastoreQueries.WithLabelValues(status).Inc()
	m.datastoreLatency.Observe(d.Seconds())
}
