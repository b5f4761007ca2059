package poller_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/domain/service/poller"
	"portals_watcher/internal/infrastructure/persistence"
	"portals_watcher/pkg/dbtest"
	"portals_watcher/pkg/tests"
)

type fakeGateway struct {
	mu       sync.Mutex
	floors   map[string]float64
	listings map[string][]entity.Listing
	panicOn  string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		floors:   map[string]float64{},
		listings: map[string][]entity.Listing{},
	}
}

func (g *fakeGateway) GetFloor(_ context.Context, collection string) (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if collection == g.panicOn {
		panic("upstream exploded")
	}

	floor, ok := g.floors[collection]
	return floor, ok
}

func (g *fakeGateway) GetRecentListings(_ context.Context, collection string, limit int) []entity.Listing {
	g.mu.Lock()
	defer g.mu.Unlock()

	listings := g.listings[collection]
	if len(listings) > limit {
		listings = listings[:limit]
	}
	return listings
}

type sentMessage struct {
	userID int64
	text   string
}

type fakeSink struct {
	mu     sync.Mutex
	sent   []sentMessage
	failTo map[int64]bool
}

func (s *fakeSink) Send(_ context.Context, userID int64, text string, disablePreview bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !disablePreview {
		return errors.New("preview must be disabled")
	}

	if s.failTo[userID] {
		return errors.New("bot was blocked by the user")
	}

	s.sent = append(s.sent, sentMessage{userID: userID, text: text})
	return nil
}

func (s *fakeSink) recipients() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.userID)
	}
	return out
}

type flakyStore struct {
	poller.SubscriptionStore
	failSubscribers int
	failCollections bool
}

func (s *flakyStore) ListDistinctCollections(ctx context.Context) ([]string, error) {
	if s.failCollections {
		return nil, errors.New("database is locked")
	}
	return s.SubscriptionStore.ListDistinctCollections(ctx)
}

func (s *flakyStore) SubscribersOf(ctx context.Context, collection string) ([]entity.Subscription, error) {
	if s.failSubscribers > 0 {
		s.failSubscribers--
		return nil, errors.New("database is locked")
	}
	return s.SubscriptionStore.SubscribersOf(ctx, collection)
}

type env struct {
	subs    *persistence.SubscriptionRepository
	ledger  *persistence.SeenListingRepository
	gateway *fakeGateway
	sink    *fakeSink
	poller  *poller.Poller
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := dbtest.OpenSQLite(t, dbtest.SQLitePath(t))
	require.NoError(t, persistence.Migrate(context.Background(), db))

	e := &env{
		subs:    persistence.NewSubscriptionRepository(db),
		ledger:  persistence.NewSeenListingRepository(db),
		gateway: newFakeGateway(),
		sink:    &fakeSink{failTo: map[int64]bool{}},
	}
	e.poller = poller.New(e.subs, e.ledger, e.gateway, e.sink, 20)

	return e
}

func (e *env) subscribe(t *testing.T, userID int64, collection string, threshold float64) {
	t.Helper()
	require.NoError(t, e.subs.Add(context.Background(), entity.Subscription{
		UserID:       userID,
		Collection:   collection,
		ThresholdPct: threshold,
	}))
}

func listing(id string, price float64) entity.Listing {
	return entity.Listing{ID: id, Price: &price, Title: "Pepe #" + id, URL: "https://example.com/" + id}
}

func TestPoller_BorderIsInclusive(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 10)
	e.gateway.floors["pepe"] = 10
	e.gateway.listings["pepe"] = []entity.Listing{listing("at-border", 9.0), listing("above", 9.01)}

	report, err := e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.Collections)
	rq.Equal(2, report.Evaluated)
	rq.Equal(1, report.Notified)
	rq.NotEmpty(report.TraceID)
	rq.Len(e.sink.sent, 1)
	rq.Contains(e.sink.sent[0].text, "Pepe #at-border")

	// Оба лота отмечены, даже несработавший.
	for _, id := range []string{"at-border", "above"} {
		seen, err := e.ledger.IsSeen(ctx, id)
		rq.NoError(err)
		rq.True(seen)
	}
}

func TestPoller_NotifiesOnceAcrossCycles(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 0)
	e.gateway.floors["pepe"] = 10
	e.gateway.listings["pepe"] = []entity.Listing{listing("free", 0)}

	for range 3 {
		_, err := e.poller.RunCycle(ctx)
		rq.NoError(err)
	}

	rq.Equal([]int64{1}, e.sink.recipients())
}

func TestPoller_AbsentFloorSkipsCollection(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 10)
	e.gateway.listings["pepe"] = []entity.Listing{listing("L1", 5)}

	report, err := e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.Skipped)
	rq.Empty(e.sink.sent)

	seen, err := e.ledger.IsSeen(ctx, "L1")
	rq.NoError(err)
	rq.False(seen)

	e.gateway.floors["pepe"] = 10

	report, err = e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(0, report.Skipped)
	rq.Equal([]int64{1}, e.sink.recipients())
}

func TestPoller_ThresholdUpdateAffectsOnlyUnseenListings(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 50)
	e.gateway.floors["pepe"] = 100
	e.gateway.listings["pepe"] = []entity.Listing{listing("A", 60)}

	_, err := e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Empty(e.sink.sent)

	// С новым порогом A прошёл бы, но он уже просмотрен.
	e.subscribe(t, 1, "pepe", 5)
	e.gateway.listings["pepe"] = []entity.Listing{listing("B", 90), listing("A", 60)}

	_, err = e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Len(e.sink.sent, 1)
	rq.Contains(e.sink.sent[0].text, "Pepe #B")
}

func TestPoller_UnsubscribedUserIsNotNotified(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 10)
	e.subscribe(t, 2, "pepe", 10)
	e.gateway.floors["pepe"] = 10
	e.gateway.listings["pepe"] = []entity.Listing{listing("L1", 1)}

	_, err := e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal([]int64{1, 2}, e.sink.recipients())

	removed, err := e.subs.Remove(ctx, 2, "pepe")
	rq.NoError(err)
	rq.True(removed)

	e.gateway.listings["pepe"] = []entity.Listing{listing("L2", 1)}

	_, err = e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal([]int64{1, 2, 1}, e.sink.recipients())
}

func TestPoller_MalformedListingsNeverReachLedger(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 90)
	e.gateway.floors["pepe"] = 10
	e.gateway.listings["pepe"] = []entity.Listing{
		{ID: "no-price", Title: "x"},
		listing("negative", -1),
		listing("", 1),
		listing("ok", 0.5),
	}

	report, err := e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(3, report.Discarded)
	rq.Equal(1, report.Evaluated)
	rq.Equal(1, report.Notified)

	for _, id := range []string{"no-price", "negative"} {
		seen, err := e.ledger.IsSeen(ctx, id)
		rq.NoError(err)
		rq.False(seen)
	}
}

func TestPoller_SendFailureDoesNotBlockOthers(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 10)
	e.subscribe(t, 2, "pepe", 10)
	e.sink.failTo[1] = true
	e.gateway.floors["pepe"] = 10
	e.gateway.listings["pepe"] = []entity.Listing{listing("L1", 5)}

	report, err := e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.Failed)
	rq.Equal(1, report.Notified)
	rq.Equal([]int64{2}, e.sink.recipients())

	seen, err := e.ledger.IsSeen(ctx, "L1")
	rq.NoError(err)
	rq.True(seen)

	// Повторной попытки нет.
	e.sink.failTo[1] = false
	_, err = e.poller.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal([]int64{2}, e.sink.recipients())
}

func TestPoller_StoreErrorLeavesListingUnseen(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	e := newEnv(t)
	e.subscribe(t, 1, "pepe", 10)
	e.gateway.floors["pepe"] = 10
	e.gateway.listings["pepe"] = []entity.Listing{listing("L1", 5)}

	store := &flakyStore{SubscriptionStore: e.subs, failSubscribers: 1}
	p := poller.New(store, e.ledger, e.gateway, e.sink, 20)

	report, err := p.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.Skipped)
	rq.Empty(e.sink.sent)

	seen, err := e.ledger.IsSeen(ctx, "L1")
	rq.NoError(err)
	rq.False(seen)

	_, err = p.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal([]int64{1}, e.sink.recipients())
}

func TestPoller_EnumerationErrorFailsCycle(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	p := poller.New(&flakyStore{SubscriptionStore: e.subs, failCollections: true}, e.ledger, e.gateway, e.sink, 20)

	_, err := p.RunCycle(context.Background())
	rq.Error(err)
}

func TestPoller_PanicInOneCollectionIsIsolated(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	e.subscribe(t, 1, "alpha", 10)
	e.subscribe(t, 1, "beta", 10)
	e.gateway.panicOn = "alpha"
	e.gateway.floors["beta"] = 10
	e.gateway.listings["beta"] = []entity.Listing{listing("B1", 1)}

	report, err := e.poller.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(2, report.Collections)
	rq.Equal(1, report.Skipped)
	rq.Equal([]int64{1}, e.sink.recipients())
}

func TestPoller_SameListingSeenOncePerCycleAcrossCollections(t *testing.T) {
	rq := require.New(t)

	e := newEnv(t)
	e.subscribe(t, 1, "alpha", 10)
	e.subscribe(t, 2, "beta", 10)
	e.gateway.floors["alpha"] = 10
	e.gateway.floors["beta"] = 10
	e.gateway.listings["alpha"] = []entity.Listing{listing("shared", 1)}
	e.gateway.listings["beta"] = []entity.Listing{listing("shared", 1)}

	_, err := e.poller.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal([]int64{1}, e.sink.recipients())
}

func TestPoller_RandomizedThresholds(t *testing.T) {
	rq := require.New(t)

	random := tests.NewRandomizer()

	e := newEnv(t)

	const floor = 100.0
	e.gateway.floors["pepe"] = floor

	thresholds := make(map[int64]float64)
	for userID := int64(1); userID <= 30; userID++ {
		threshold := float64(int(random.Float64()*9000)) / 100
		thresholds[userID] = threshold
		e.subscribe(t, userID, "pepe", threshold)
	}

	price := float64(int(random.Float64()*10000)) / 100
	e.gateway.listings["pepe"] = []entity.Listing{listing("R1", price)}

	_, err := e.poller.RunCycle(context.Background())
	rq.NoError(err)

	want := make([]int64, 0)
	for userID, threshold := range thresholds {
		if price <= floor*(1-threshold/100) {
			want = append(want, userID)
		}
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	rq.Equal(want, e.sink.recipients())
}
