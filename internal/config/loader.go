package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mmynk/splitledger/internal/currency"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SPLITLEDGER_DB_PATH.
	EnvPrefix = "SPLITLEDGER_"

	// EnvConfigFile names an optional YAML file loaded before the environment.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SPLITLEDGER_CONFIG is set
//  3. env (prefix SPLITLEDGER_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// SPLITLEDGER_DB_PATH -> db_path. Underscores are kept to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes currency codes and checks the settings the server cannot
// start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: jwt_secret must not be empty", ErrInvalidConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidConfig)
	}

	c.BaseCurrency = strings.ToUpper(strings.TrimSpace(c.BaseCurrency))
	if c.BaseCurrency == "" {
		return fmt.Errorf("%w: base_currency must not be empty", ErrInvalidConfig)
	}

	if c.ExchangeRates == nil && c.BaseCurrency != currency.DefaultBase {
		return fmt.Errorf("%w: exchange_rates required for base_currency %s", ErrInvalidConfig, c.BaseCurrency)
	}
	if c.ExchangeRates != nil {
		rates := make(map[string]float64, len(c.ExchangeRates))
		for code, rate := range c.ExchangeRates {
			if rate <= 0 {
				return fmt.Errorf("%w: exchange rate for %s must be positive", ErrInvalidConfig, code)
			}
			rates[strings.ToUpper(code)] = rate
		}
		if _, ok := rates[c.BaseCurrency]; !ok {
			rates[c.BaseCurrency] = 1
		}
		c.ExchangeRates = rates
	}
	return nil
}
