package config

import "time"

type Marketplace struct {
	BaseURL            string        `env:"MARKETPLACE_BASE_URL" envDefault:"https://portals-market.com/api" validate:"url"`
	AuthToken          string        `env:"MARKETPLACE_AUTH_TOKEN" json:"-"`
	AuthScheme         string        `env:"MARKETPLACE_AUTH_SCHEME" envDefault:"tma"`
	Timeout            time.Duration `env:"MARKETPLACE_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ListingsLimit      int           `env:"MARKETPLACE_LISTINGS_LIMIT" envDefault:"20" validate:"gte=1,lte=100"`
	RPS                float64       `env:"MARKETPLACE_RPS" envDefault:"5" validate:"gte=0"`
	ListingURLTemplate string        `env:"MARKETPLACE_LISTING_URL" envDefault:"https://t.me/portals/market?startapp={id}"`
}
