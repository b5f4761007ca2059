package persistence

import (
	"time"

	"portals_watcher/internal/domain/entity"
)

// subscriptionSchema — внутренняя структура для маппинга строки subscriptions.
type subscriptionSchema struct {
	UserID       int64     `db:"user_id"`
	Collection   string    `db:"collection"`
	ThresholdPct float64   `db:"threshold_pct"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func fromSubscription(e entity.Subscription) subscriptionSchema {
	return subscriptionSchema{
		UserID:       e.UserID,
		Collection:   e.Collection,
		ThresholdPct: e.ThresholdPct,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (s subscriptionSchema) toDomain() entity.Subscription {
	return entity.Subscription{
		UserID:       s.UserID,
		Collection:   s.Collection,
		ThresholdPct: s.ThresholdPct,
	}
}
