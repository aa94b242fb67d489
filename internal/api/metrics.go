package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lookups  *prometheus.CounterVec
	tables   prometheus.Gauge
}

// lookupOutcomes are pre-initialized so rates start at zero.
var lookupOutcomes = []string{"hit", "miss", "invalid", "unavailable", "error"}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mayakin_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mayakin_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mayakin_lookups_total",
			Help: "Lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		tables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mayakin_reference_tables",
			Help: "Number of loaded reference tables.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.lookups,
		m.tables,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	for _, kind := range []string{"kin", "birthday", "calc"} {
		for _, outcome := range lookupOutcomes {
			m.lookups.WithLabelValues(kind, outcome).Add(0)
		}
	}

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeLookup(kind, outcome string) {
	m.lookups.WithLabelValues(kind, outcome).Inc()
}
