package config

import "time"

type Storage struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite" validate:"oneof=sqlite pgx"`
	DSN             string        `env:"DB_DSN,notEmpty" envDefault:"file:data/watcher.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" json:"-"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}
