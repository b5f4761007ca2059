package marketplace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_requests_total",
			Help: "Total number of marketplace requests",
		},
		[]string{"operation"},
	)

	// reason: http|breaker_open|rate_limit|payload
	gatewayFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_failures_total",
			Help: "Total number of marketplace requests treated as absent",
		},
		[]string{"operation", "reason"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_request_duration_seconds",
			Help:    "Marketplace request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)
