package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SpinsTotal counts completed spins by prize label
	SpinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wheel",
			Name:      "spins_total",
			Help:      "Total number of completed spins.",
		},
		[]string{"prize"},
	)

	// SpinFailuresTotal counts rejected or failed spins by reason
	SpinFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wheel",
			Name:      "spin_failures_total",
			Help:      "Total number of spins that did not complete.",
		},
		[]string{"reason"},
	)

	// ClaimsTotal counts claim attempts by result
	ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wheel",
			Name:      "claims_total",
			Help:      "Total number of claim ticket redemptions attempted.",
		},
		[]string{"result"},
	)

	// VotesTotal counts accepted votes
	VotesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "events",
			Name:      "votes_total",
			Help:      "Total number of accepted votes.",
		},
	)

	// ReconcileDiscrepancies is the number of mismatched balances found by the last reconciliation
	ReconcileDiscrepancies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wheel",
			Name:      "reconcile_discrepancies",
			Help:      "Accounts whose balance did not match their history in the last reconciliation.",
		},
	)

	// HttpRequestsTotal counts HTTP requests
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "http",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"path", "method", "status"},
	)

	// HttpRequestDuration records HTTP request latency
	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// Register adds every collector to registerer. Collectors that are already
// registered are left alone so tests can build several routers.
func Register(registerer prometheus.Registerer) error {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		SpinsTotal,
		SpinFailuresTotal,
		ClaimsTotal,
		VotesTotal,
		ReconcileDiscrepancies,
		HttpRequestsTotal,
		HttpRequestDuration,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
