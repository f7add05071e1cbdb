// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline: how many selections were scored, where they were discarded, and
// how long each sport run took.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes recorded per selection.
const (
	OutcomeCommitted      = "committed"
	OutcomeDiscardedPrice = "discarded_price"
	OutcomeDiscardedValue = "discarded_value"
	OutcomeFailed         = "failed"
)

// Metrics holds every collector the pipeline reports to.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec
	FetchErrorsTotal *prometheus.CounterVec
	SportRunSeconds  *prometheus.HistogramVec
	PipelineSeconds  prometheus.Histogram
	RunsInProgress   prometheus.Gauge
}

// New builds and registers all collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valuebet_analyses_total",
			Help: "Selections analyzed, by sport and outcome.",
		}, []string{"sport", "outcome"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valuebet_fetch_errors_total",
			Help: "External signal fetch failures, by source.",
		}, []string{"source"}),
		SportRunSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "valuebet_sport_run_seconds",
			Help:    "Wall time of one sport's analysis run.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"sport"}),
		PipelineSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "valuebet_pipeline_seconds",
			Help:    "Wall time of a full cross-sport pipeline run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		RunsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "valuebet_runs_in_progress",
			Help: "1 while a pipeline run holds the guard, 0 otherwise.",
		}),
	}

	registry.MustRegister(
		m.AnalysesTotal,
		m.FetchErrorsTotal,
		m.SportRunSeconds,
		m.PipelineSeconds,
		m.RunsInProgress,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAnalysis counts one selection outcome.
func (m *Metrics) RecordAnalysis(sport, outcome string) {
	m.AnalysesTotal.WithLabelValues(sport, outcome).Inc()
}

// RecordFetchError counts one failed signal fetch.
func (m *Metrics) RecordFetchError(source string) {
	m.FetchErrorsTotal.WithLabelValues(source).Inc()
}
