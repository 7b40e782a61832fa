// Package metrics owns the Prometheus collectors for generation calls and
// pipeline stages.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dusk-indust/agentflow/internal/llm"
	"github.com/dusk-indust/agentflow/internal/orchestrator"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	GenerateCalls    *prometheus.CounterVec
	GenerateDuration prometheus.Histogram
	StageRuns        *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
}

// New creates a Metrics value with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GenerateCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentflow",
			Name:      "generate_calls_total",
			Help:      "Text-generation calls by outcome.",
		}, []string{"outcome"}),
		GenerateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agentflow",
			Name:      "generate_duration_seconds",
			Help:      "Latency of text-generation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		StageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agentflow",
			Name:      "stage_runs_total",
			Help:      "Pipeline stage executions by pipeline, stage and status.",
		}, []string{"pipeline", "stage", "status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agentflow",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of finished pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"pipeline", "stage"}),
	}
	m.registry.MustRegister(m.GenerateCalls, m.GenerateDuration, m.StageRuns, m.StageDuration)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveProgress records finished stages. It has the orchestrator observer
// signature so it can be chained onto any run.
func (m *Metrics) ObserveProgress(ev orchestrator.ProgressEvent) {
	switch ev.Status {
	case orchestrator.ProgressComplete, orchestrator.ProgressFailed:
		m.StageRuns.WithLabelValues(ev.Pipeline, ev.Stage, string(ev.Status)).Inc()
		m.StageDuration.WithLabelValues(ev.Pipeline, ev.Stage).Observe(ev.Elapsed.Seconds())
	}
}

// Instrument wraps gen so every call is counted and timed.
func (m *Metrics) Instrument(gen llm.Generator) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, req llm.GenerateRequest) (string, error) {
		start := time.Now()
		out, err := gen.Generate(ctx, req)
		m.GenerateDuration.Observe(time.Since(start).Seconds())
		m.GenerateCalls.WithLabelValues(llm.Kind(err)).Inc()
		return out, err
	})
}
