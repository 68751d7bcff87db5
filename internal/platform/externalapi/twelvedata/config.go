// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string        `envconfig:"API_KEY"`                                     // API key for authentication
	BaseURL          string        `envconfig:"BASE_URL" default:"https://api.twelvedata.com"` // Base URL for the API
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"10s"`                         // HTTP request timeout
}

// LoadConfig loads Twelve Data configuration from TWELVE_DATA_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("TWELVE_DATA", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
