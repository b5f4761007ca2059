// Модели HTTP API: /status и подписки WebApp.
package rest

import "time"

type Status struct {
	Running   bool         `json:"running"`
	Interval  string       `json:"interval"`
	Cycles    int64        `json:"cycles"`
	LastCycle *CycleReport `json:"lastCycle,omitempty"`
	LastError string       `json:"lastError,omitempty"`
}

type CycleReport struct {
	TraceID     string    `json:"traceId"`
	Collections int       `json:"collections"`
	Skipped     int       `json:"skipped"`
	Evaluated   int       `json:"evaluated"`
	Discarded   int       `json:"discarded"`
	Notified    int       `json:"notified"`
	Failed      int       `json:"failed"`
	StartedAt   time.Time `json:"startedAt"`
	DurationMs  int64     `json:"durationMs"`
}

type Subscription struct {
	Collection   string    `json:"collection"`
	ThresholdPct float64   `json:"thresholdPct"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type SubscribeRequest struct {
	Collection   string   `json:"collection" validate:"required"`
	ThresholdPct *float64 `json:"thresholdPct" validate:"required"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
