package entity

// Alert — сработавший триггер для конкретного подписчика.
type Alert struct {
	UserID       int64
	Collection   string
	Listing      Listing
	Floor        float64
	ThresholdPct float64
	Border       float64
}
