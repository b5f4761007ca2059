package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watcher_cycles_total",
			Help: "Total number of poll cycles",
		},
		[]string{"status"}, // status: ok|failed
	)

	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watcher_cycle_duration_seconds",
			Help:    "Poll cycle duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	collectionsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watcher_collections_skipped_total",
			Help: "Total number of collections skipped because floor or subscribers were unavailable",
		},
	)

	listingsEvaluatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watcher_listings_evaluated_total",
			Help: "Total number of listings claimed and evaluated against subscribers",
		},
	)

	listingsDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watcher_listings_discarded_total",
			Help: "Total number of malformed listings discarded",
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watcher_notifications_total",
			Help: "Total number of alert deliveries",
		},
		[]string{"status"}, // status: sent|failed
	)
)
