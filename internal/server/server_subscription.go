package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/pkg/httpx/reply"
	"portals_watcher/pkg/httpx/req"
	"portals_watcher/pkg/lox"
	"portals_watcher/pkg/rest"
)

type subscriptionService interface {
	Subscribe(ctx context.Context, userID int64, collection string, thresholdPct float64) (entity.Subscription, error)
	Unsubscribe(ctx context.Context, userID int64, collection string) (bool, error)
	List(ctx context.Context, userID int64) ([]entity.Subscription, error)
}

type SubscriptionServer struct {
	subscriptionService subscriptionService
}

func NewSubscriptionServer(subscriptionService subscriptionService) SubscriptionServer {
	return SubscriptionServer{
		subscriptionService: subscriptionService,
	}
}

func (s SubscriptionServer) getV1Subscriptions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("userIDFromContext: %w", err)
	}

	subs, err := s.subscriptionService.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("subscriptionService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(subs, newRESTSubscription))

	return nil
}

func (s SubscriptionServer) putV1Subscription(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("userIDFromContext: %w", err)
	}

	var request rest.SubscribeRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	sub, err := s.subscriptionService.Subscribe(ctx, userID, request.Collection, *request.ThresholdPct)
	if err != nil {
		return fmt.Errorf("subscriptionService.Subscribe: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSubscription(sub))

	return nil
}

func (s SubscriptionServer) deleteV1Subscription(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return fmt.Errorf("userIDFromContext: %w", err)
	}

	removed, err := s.subscriptionService.Unsubscribe(ctx, userID, chi.URLParam(r, "collection"))
	if err != nil {
		return fmt.Errorf("subscriptionService.Unsubscribe: %w", err)
	}

	if !removed {
		return errSubscriptionNotFound
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
