// Package yahoo fetches daily price history from the Yahoo Finance chart API.
package yahoo

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" default:"https://query1.finance.yahoo.com"`
	UserAgent string        `envconfig:"USER_AGENT" default:"Mozilla/5.0"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// LoadConfig reads YAHOO_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("YAHOO", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
