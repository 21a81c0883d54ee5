// Package config loads the process-wide configuration surface:
// application name, default strategy, default limit, default window,
// and the shared-store connection URL. It is read once at startup and
// treated as immutable thereafter; switching configuration at runtime
// is not supported.
//
// An env-tag struct is loaded via github.com/ilyakaznacheev/cleanenv
// and validated via github.com/go-playground/validator/v10.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the environment-sourced configuration surface.
type Config struct {
	AppName string `env:"SENTINEL_APP_NAME" env-default:"ratelimit-sentinel"`

	// DefaultStrategy selects the algorithm the interceptor dispatches
	// to; one of "token_bucket" or "sliding_window".
	DefaultStrategy string `env:"SENTINEL_STRATEGY" env-default:"token_bucket" validate:"oneof=token_bucket sliding_window"`

	DefaultLimit  int64         `env:"SENTINEL_DEFAULT_LIMIT" env-default:"100" validate:"min=1"`
	DefaultWindow time.Duration `env:"SENTINEL_DEFAULT_WINDOW" env-default:"1m" validate:"min=1s"`

	// StoreURL is the shared-store connection URL, e.g.
	// redis://localhost:6379/0. Empty selects the in-memory store,
	// useful for local development.
	StoreURL string `env:"SENTINEL_STORE_URL"`

	ListenAddr string `env:"SENTINEL_LISTEN_ADDR" env-default:":8080"`
}

// Load reads Config from a ".env" file if present, falling back to the
// process environment, and validates the result.
func Load() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(".env", &cfg); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read environment: %w", err)
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
