package entity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"portals_watcher/internal/domain/entity"
)

func ptr(v float64) *float64 {
	return &v
}

func TestListingValid(t *testing.T) {
	tests := []struct {
		name    string
		listing entity.Listing
		want    bool
	}{
		{name: "ok", listing: entity.Listing{ID: "1", Price: ptr(5)}, want: true},
		{name: "zero price", listing: entity.Listing{ID: "1", Price: ptr(0)}, want: true},
		{name: "missing id", listing: entity.Listing{Price: ptr(5)}},
		{name: "missing price", listing: entity.Listing{ID: "1"}},
		{name: "negative", listing: entity.Listing{ID: "1", Price: ptr(-0.01)}},
		{name: "nan", listing: entity.Listing{ID: "1", Price: ptr(math.NaN())}},
		{name: "inf", listing: entity.Listing{ID: "1", Price: ptr(math.Inf(1))}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.listing.Valid())
		})
	}
}

func TestSubscriptionTriggers(t *testing.T) {
	rq := require.New(t)

	sub := entity.Subscription{UserID: 1, Collection: "pepe", ThresholdPct: 10}

	rq.InDelta(9.0, sub.Border(10), 1e-9)
	rq.True(sub.Triggers(9.0, 10))
	rq.True(sub.Triggers(0, 10))
	rq.False(sub.Triggers(9.01, 10))

	zero := entity.Subscription{ThresholdPct: 0}
	rq.True(zero.Triggers(10, 10))
	rq.False(zero.Triggers(10.0001, 10))
}
