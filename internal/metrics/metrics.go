// Package metrics defines the Prometheus collectors shared across the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route pattern and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodstorage_http_requests_total",
		Help: "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// RequestDuration observes HTTP request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foodstorage_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// IDsIssued counts ids handed out by the sequence allocator per counter.
	IDsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodstorage_sequence_ids_issued_total",
		Help: "Sequence ids successfully allocated, by counter name.",
	}, []string{"counter"})

	// AllocatorDegraded is 1 while the sequence allocator refuses to issue ids.
	AllocatorDegraded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodstorage_sequence_allocator_degraded",
		Help: "Whether the sequence allocator is in the degraded state.",
	})

	// ConsistencyWarnings counts detected pantry back-reference inconsistencies.
	ConsistencyWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodstorage_pantry_consistency_warnings_total",
		Help: "Detected disagreements between products and pantry back-references.",
	})

	// ReconciliationRepairs counts dangling pantry references removed.
	ReconciliationRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodstorage_pantry_reconciliation_repairs_total",
		Help: "Dangling pantry references removed by reconciliation.",
	})
)
