// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated registry so tests can create isolated instances.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	GatewayCalls    *prometheus.CounterVec
	GatewayAttempts *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	RoutePlans      *prometheus.CounterVec
	PlanDuration    *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		GatewayCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "gateway_calls_total", Help: "Travel-time gateway calls by mode and outcome."},
			[]string{"mode", "outcome"},
		),
		GatewayAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "gateway_attempts_total", Help: "Individual HTTP attempts against the routing service."},
			[]string{"mode", "result"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "duration_cache_lookups_total", Help: "Duration cache lookups by result."},
			[]string{"result"},
		),
		RoutePlans: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "route_plans_total", Help: "Completed route plans by source."},
			[]string{"source", "degraded"},
		),
		PlanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "route_plan_duration_seconds", Help: "Wall time to plan a route.", Buckets: prometheus.DefBuckets},
			[]string{"source"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"method", "route"},
		),
	}

	m.Registry.MustRegister(
		m.GatewayCalls,
		m.GatewayAttempts,
		m.CacheLookups,
		m.RoutePlans,
		m.PlanDuration,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveGatewayCall(mode, outcome string) {
	if m == nil {
		return
	}
	m.GatewayCalls.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) ObserveGatewayAttempt(mode, result string) {
	if m == nil {
		return
	}
	m.GatewayAttempts.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePlan(source string, degraded bool, took time.Duration) {
	if m == nil {
		return
	}
	d := "false"
	if degraded {
		d = "true"
	}
	m.RoutePlans.WithLabelValues(source, d).Inc()
	m.PlanDuration.WithLabelValues(source).Observe(took.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
