package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Bot         Bot
	Storage     Storage
	Marketplace Marketplace
	Watcher     Watcher
	HTTP        HTTP
}

type Bot struct {
	Token     string `env:"BOT_TOKEN,required,notEmpty" json:"-"`
	AdminID   int64  `env:"BOT_ADMIN_ID"`
	WebAppURL string `env:"WEBAPP_URL" validate:"omitempty,url"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}
