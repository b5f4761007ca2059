package poller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/domain/service/poller"
	"portals_watcher/internal/infrastructure/marketplace"
	"portals_watcher/internal/infrastructure/persistence"
	"portals_watcher/pkg/dbtest"
)

// Неизвестные маркетплейсу коллекции (404) идут по алфавиту раньше живой
// и не должны мешать ей получать уведомления.
func TestPoller_UnknownCollectionsDoNotBlockHealthyOne(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var healthyHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections/plushpepe/floor":
			healthyHits.Add(1)
			_, _ = w.Write([]byte(`{"floor": 10}`))
		case "/collections/plushpepe/listings":
			_, _ = w.Write([]byte(`{"listings": [{"id": "pp-1", "price": 5}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	gw, err := marketplace.NewGateway(marketplace.Options{
		Client: marketplace.ClientOptions{BaseURL: srv.URL, Timeout: 2 * time.Second},
	})
	rq.NoError(err)

	db := dbtest.OpenSQLite(t, dbtest.SQLitePath(t))
	rq.NoError(persistence.Migrate(ctx, db))

	subs := persistence.NewSubscriptionRepository(db)
	for i := range 5 {
		rq.NoError(subs.Add(ctx, entity.Subscription{UserID: 1, Collection: "aaa" + strconv.Itoa(i), ThresholdPct: 10}))
	}
	rq.NoError(subs.Add(ctx, entity.Subscription{UserID: 1, Collection: "plushpepe", ThresholdPct: 10}))

	sink := &fakeSink{failTo: map[int64]bool{}}
	p := poller.New(subs, persistence.NewSeenListingRepository(db), gw, sink, 20)

	report, err := p.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(6, report.Collections)
	rq.Equal(5, report.Skipped)
	rq.Equal(1, report.Notified)
	rq.Equal([]int64{1}, sink.recipients())

	for range 3 {
		report, err = p.RunCycle(ctx)
		rq.NoError(err)
		rq.Equal(5, report.Skipped)
	}

	rq.Equal(int32(4), healthyHits.Load())
}
