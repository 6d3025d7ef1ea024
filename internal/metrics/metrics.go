// Package metrics registers the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. Each instance owns its registry so tests can build
// as many as they need.
type Metrics struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	saleMutations     *prometheus.CounterVec
	insufficientStock prometheus.Counter
}

// New creates and registers all collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resale",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method, and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resale",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		saleMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resale",
			Name:      "sale_mutations_total",
			Help:      "Sale create/update/delete attempts by outcome.",
		}, []string{"op", "outcome"}),
		insufficientStock: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resale",
			Name:      "insufficient_stock_total",
			Help:      "Sale mutations rejected for lack of stock.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.saleMutations, m.insufficientStock,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Sale outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeFailed       = "failed"
)

// SaleMutation records a sale mutation outcome.
func (m *Metrics) SaleMutation(op, outcome string) {
	m.saleMutations.WithLabelValues(op, outcome).Inc()
	if outcome == OutcomeInsufficient {
		m.insufficientStock.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
