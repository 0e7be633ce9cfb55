// Package config loads service configuration from TIMBAL_* environment
// variables with sane defaults for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the API service configuration.
type Config struct {
	HTTPAddr      string
	PostgresDSN   string
	AllowedDomain string
	OrderPrefix   string
	OrderMinWidth int
	ProviderURL   string
	ProviderKey   string
	RateBurst     int
	RatePerSec    int
}

const (
	defaultHTTPAddr      = ":8080"
	defaultAllowedDomain = "timbal.com.mx"
	defaultOrderPrefix   = "BR1940"
	defaultOrderMinWidth = 4
	defaultRateBurst     = 20
	defaultRatePerSec    = 10
)

// Load reads configuration from the environment. Missing optional values fall
// back to defaults; malformed numeric values fail fast.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      envOr("TIMBAL_HTTP_ADDR", defaultHTTPAddr),
		PostgresDSN:   strings.TrimSpace(os.Getenv("TIMBAL_PG_DSN")),
		AllowedDomain: envOr("TIMBAL_ALLOWED_DOMAIN", defaultAllowedDomain),
		OrderPrefix:   envOr("TIMBAL_ORDER_PREFIX", defaultOrderPrefix),
		ProviderURL:   strings.TrimSpace(os.Getenv("TIMBAL_PROVIDER_URL")),
		ProviderKey:   strings.TrimSpace(os.Getenv("TIMBAL_PROVIDER_KEY")),
	}

	var err error
	if cfg.OrderMinWidth, err = envIntOr("TIMBAL_ORDER_MIN_WIDTH", defaultOrderMinWidth); err != nil {
		return nil, err
	}
	if cfg.OrderMinWidth <= 0 {
		return nil, fmt.Errorf("TIMBAL_ORDER_MIN_WIDTH must be positive")
	}
	if cfg.RateBurst, err = envIntOr("TIMBAL_RATE_BURST", defaultRateBurst); err != nil {
		return nil, err
	}
	if cfg.RatePerSec, err = envIntOr("TIMBAL_RATE_PER_SEC", defaultRatePerSec); err != nil {
		return nil, err
	}
	if cfg.ProviderURL == "" && cfg.ProviderKey != "" {
		return nil, fmt.Errorf("TIMBAL_PROVIDER_KEY set without TIMBAL_PROVIDER_URL")
	}

	cfg.AllowedDomain = strings.TrimPrefix(strings.ToLower(cfg.AllowedDomain), "@")
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}
