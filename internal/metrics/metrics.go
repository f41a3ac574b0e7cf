// Package metrics exposes Prometheus instrumentation for the HTTP layer
// and the settlement engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitledger_http_requests_total",
			Help: "Total HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes HTTP request latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitledger_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// SettlementRuns counts settlement recalculations.
	SettlementRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitledger_settlement_runs_total",
			Help: "Total settlement recalculations performed.",
		},
	)

	// SettlementsEmitted counts settlements produced by recalculations.
	SettlementsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitledger_settlements_emitted_total",
			Help: "Total settlement records emitted by the matcher.",
		},
	)
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
