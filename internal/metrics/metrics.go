// Package metrics exposes Prometheus metrics for verification runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "factscope"

// Metrics holds the run collectors and the registry they are registered in
type Metrics struct {
	Registry *prometheus.Registry

	StageDuration *prometheus.HistogramVec
	ProviderCalls *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	Verdicts      *prometheus.CounterVec
	Runs          *prometheus.CounterVec
}

// New creates the collectors in a fresh registry, together with the Go
// runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Search provider calls by outcome.",
			},
			[]string{"provider", "outcome"}, // ok | error | timeout | panic
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Deterministic fallbacks used, by component.",
			},
			[]string{"component"},
		),
		Verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verdicts_total",
				Help:      "Overall verdicts by label.",
			},
			[]string{"label"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Verification runs by status.",
			},
			[]string{"status"}, // completed | invalid
		),
	}

	m.Registry.MustRegister(
		m.StageDuration, m.ProviderCalls, m.Fallbacks, m.Verdicts, m.Runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveStage records a stage duration
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ProviderCall counts one provider call
func (m *Metrics) ProviderCall(provider, outcome string) {
	m.ProviderCalls.WithLabelValues(provider, outcome).Inc()
}

// Fallback counts n fallbacks in a component
func (m *Metrics) Fallback(component string, n int) {
	if n > 0 {
		m.Fallbacks.WithLabelValues(component).Add(float64(n))
	}
}

// Verdict counts an overall verdict
func (m *Metrics) Verdict(label string) {
	m.Verdicts.WithLabelValues(label).Inc()
}

// Run counts a finished run
func (m *Metrics) Run(status string) {
	m.Runs.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
