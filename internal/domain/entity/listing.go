package entity

import (
	"math"
	"time"
)

type Listing struct {
	ID    string   `json:"id"`
	Price *float64 `json:"price,omitempty"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
}

// Valid reports whether the listing can be evaluated: it needs an id and a
// finite non-negative price.
func (l Listing) Valid() bool {
	if l.ID == "" || l.Price == nil {
		return false
	}

	p := *l.Price

	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// PriceValue returns the price or zero when it is missing.
func (l Listing) PriceValue() float64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}

type SeenListing struct {
	ListingID string    `json:"listing_id"`
	SeenAt    time.Time `json:"seen_at"`
}

// CollectionSnapshot is what one poll observes for a collection. It is never
// persisted.
type CollectionSnapshot struct {
	Collection string
	Floor      float64
	Listings   []Listing
}
