package handler

import (
	"context"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/worker"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID int64, collection string, thresholdPct float64) (entity.Subscription, error)
	Unsubscribe(ctx context.Context, userID int64, collection string) (bool, error)
	List(ctx context.Context, userID int64) ([]entity.Subscription, error)
}

type WatcherStatus interface {
	Status() worker.Status
}

type Handler struct {
	svc       SubscriptionService
	watcher   WatcherStatus
	webAppURL string
}

func New(svc SubscriptionService, watcher WatcherStatus, webAppURL string) *Handler {
	return &Handler{
		svc:       svc,
		watcher:   watcher,
		webAppURL: webAppURL,
	}
}
