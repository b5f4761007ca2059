package config

import "time"

type Watcher struct {
	Interval      time.Duration `env:"WATCH_INTERVAL" envDefault:"6s" validate:"gt=0"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	NotifyRPS     float64       `env:"NOTIFY_RPS" envDefault:"25" validate:"gt=0"`
}
