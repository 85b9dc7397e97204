// Package config defines the server configuration and how it is loaded.
package config

import (
	"time"

	"github.com/mmynk/splitledger/internal/currency"
)

// DevJWTSecret is the signing secret used when none is configured.
// Fine for local runs only.
const DevJWTSecret = "splitledger-dev-secret"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file. Parent directories are created on start.
	DBPath string `koanf:"db_path"`

	// StaticPath is an optional directory of frontend files served on "/".
	StaticPath string `koanf:"static_path"`

	// JWTSecret signs session tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is how long a session token stays valid.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BaseCurrency is the reference currency every amount is normalized into.
	BaseCurrency string `koanf:"base_currency"`

	// ExchangeRates maps a currency code to units of that currency per one unit of
	// BaseCurrency. Nil selects the built-in table.
	ExchangeRates map[string]float64 `koanf:"exchange_rates"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":8080",
		DBPath:       "./data/splitledger.db",
		JWTSecret:    DevJWTSecret,
		TokenTTL:     24 * time.Hour,
		BaseCurrency: currency.DefaultBase,
	}
}
