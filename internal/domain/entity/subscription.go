package entity

import "time"

// Subscription — подписка пользователя на коллекцию с персональным порогом скидки.
type Subscription struct {
	UserID       int64     `json:"user_id"`
	Collection   string    `json:"collection"`
	ThresholdPct float64   `json:"threshold_pct"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Border возвращает цену срабатывания: floor × (1 − threshold/100).
func (s Subscription) Border(floor float64) float64 {
	return floor * (1 - s.ThresholdPct/100)
}

// Triggers сообщает, проходит ли цена лота порог подписчика.
func (s Subscription) Triggers(price, floor float64) bool {
	return price <= s.Border(floor)
}
