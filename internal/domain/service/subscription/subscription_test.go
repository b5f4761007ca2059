package subscription

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"portals_watcher/internal/domain"
	"portals_watcher/internal/domain/entity"
	"portals_watcher/pkg/errcodes"
)

type memoryRepo struct {
	subs map[int64]map[string]entity.Subscription
	err  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{subs: map[int64]map[string]entity.Subscription{}}
}

func (m *memoryRepo) Add(_ context.Context, sub entity.Subscription) error {
	if m.err != nil {
		return m.err
	}
	if m.subs[sub.UserID] == nil {
		m.subs[sub.UserID] = map[string]entity.Subscription{}
	}
	m.subs[sub.UserID][sub.Collection] = sub
	return nil
}

func (m *memoryRepo) Remove(_ context.Context, userID int64, collection string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.subs[userID][collection]; !ok {
		return false, nil
	}
	delete(m.subs[userID], collection)
	return true, nil
}

func (m *memoryRepo) ListForUser(_ context.Context, userID int64) ([]entity.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.Subscription, 0, len(m.subs[userID]))
	for _, sub := range m.subs[userID] {
		out = append(out, sub)
	}
	return out, nil
}

func TestService_Subscribe(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newMemoryRepo()
	svc := NewService(repo)

	sub, err := svc.Subscribe(ctx, 1, "  PlushPepe ", 10)
	rq.NoError(err)
	rq.Equal("plushpepe", sub.Collection)
	rq.InDelta(10.0, sub.ThresholdPct, 1e-9)

	_, err = svc.Subscribe(ctx, 1, "plushpepe", 25)
	rq.NoError(err)

	subs, err := svc.List(ctx, 1)
	rq.NoError(err)
	rq.Len(subs, 1)
	rq.InDelta(25.0, subs[0].ThresholdPct, 1e-9)
}

func TestService_Subscribe_Validation(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		collection string
		threshold  float64
		wantCode   errcodes.ErrorCode
	}{
		{name: "threshold lower bound", userID: 1, collection: "pepe", threshold: 0},
		{name: "threshold upper bound", userID: 1, collection: "pepe", threshold: 90},
		{name: "negative threshold", userID: 1, collection: "pepe", threshold: -1, wantCode: errcodes.InvalidThreshold},
		{name: "threshold above max", userID: 1, collection: "pepe", threshold: 90.5, wantCode: errcodes.InvalidThreshold},
		{name: "nan threshold", userID: 1, collection: "pepe", threshold: math.NaN(), wantCode: errcodes.InvalidThreshold},
		{name: "empty collection", userID: 1, collection: "   ", threshold: 10, wantCode: errcodes.InvalidCollection},
		{name: "collection with space", userID: 1, collection: "plush pepe", threshold: 10, wantCode: errcodes.InvalidCollection},
		{name: "collection too long", userID: 1, collection: strings.Repeat("a", 65), threshold: 10, wantCode: errcodes.InvalidCollection},
		{name: "missing user", userID: 0, collection: "pepe", threshold: 10, wantCode: errcodes.InvalidUserID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			svc := NewService(newMemoryRepo())

			_, err := svc.Subscribe(context.Background(), tc.userID, tc.collection, tc.threshold)
			if tc.wantCode == "" {
				rq.NoError(err)
				return
			}

			rq.Error(err)
			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.wantCode, code)
		})
	}
}

func TestService_Subscribe_RepoError(t *testing.T) {
	rq := require.New(t)

	repo := newMemoryRepo()
	repo.err = domain.WrapError(errors.New("disk full"), errcodes.InternalServerError, "insert subscription")

	_, err := NewService(repo).Subscribe(context.Background(), 1, "pepe", 10)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InternalServerError, code)
}

func TestService_Unsubscribe(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := NewService(newMemoryRepo())

	_, err := svc.Subscribe(ctx, 1, "pepe", 10)
	rq.NoError(err)

	removed, err := svc.Unsubscribe(ctx, 1, "PEPE")
	rq.NoError(err)
	rq.True(removed)

	removed, err = svc.Unsubscribe(ctx, 1, "pepe")
	rq.NoError(err)
	rq.False(removed)

	_, err = svc.Unsubscribe(ctx, 1, " ")
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidCollection, code)
}
