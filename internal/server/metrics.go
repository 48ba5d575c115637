package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every metric name.
const MetricsNamespace = "kbm"

// Metrics holds the dashboard's Prometheus collectors on a private registry,
// so several servers can coexist in one process (tests).
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	RenderDuration    *prometheus.HistogramVec
	RenderFailures    *prometheus.CounterVec
	RenderThrottled   prometheus.Counter
	ReviewTransitions *prometheus.CounterVec
	CorpusReloads     prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "graph_render_duration_seconds",
				Help:      "Time to filter, lay out and render the graph",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"layout", "format"},
		),
		RenderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "graph_render_failures_total",
				Help:      "Graph renders that failed or did not settle",
			},
			[]string{"reason"},
		),
		RenderThrottled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "graph_render_throttled_total",
				Help:      "Graph renders rejected by the rate limiter",
			},
		),
		ReviewTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "review_transitions_total",
				Help:      "Duplicate review decisions by resulting status",
			},
			[]string{"status"},
		),
		CorpusReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "corpus_reloads_total",
				Help:      "Successful corpus reloads",
			},
		),
	}
	m.registry.MustRegister(
		m.HTTPRequests,
		m.RenderDuration,
		m.RenderFailures,
		m.RenderThrottled,
		m.ReviewTransitions,
		m.CorpusReloads,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
