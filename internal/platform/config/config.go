// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Supported values for the enumerated settings.
const (
	ProviderYahoo      = "yahoo"
	ProviderTwelveData = "twelvedata"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the flat service configuration. Upstream adapters read their own
// YAHOO_* and TWELVE_DATA_* variables.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	GinMode         string        `envconfig:"GIN_MODE" default:"release"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	PriceProvider string `envconfig:"PRICE_PROVIDER" default:"yahoo"`
	CloseField    string `envconfig:"CLOSE_FIELD" default:"close"`
	DefaultSymbol string `envconfig:"DEFAULT_SYMBOL" default:"AAPL"`
	DefaultStart  string `envconfig:"DEFAULT_START" default:"2023-01-01"`

	ChartPNGEnabled bool `envconfig:"CHART_PNG_ENABLED" default:"false"`

	DBDriver         string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN            string        `envconfig:"DB_DSN" default:"stock_explorer.db"`
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"60s"`
	RunMigrations    bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	SymbolsSeedFile  string        `envconfig:"SYMBOLS_SEED_FILE" default:"configs/symbols.yaml"`

	RedisHost      string        `envconfig:"REDIS_HOST"`
	RedisPort      string        `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	SymbolCacheTTL time.Duration `envconfig:"SYMBOL_CACHE_TTL" default:"10m"`

	MetricsNamespace string `envconfig:"METRICS_NAMESPACE" default:"stock_explorer"`
	MetricsSubsystem string `envconfig:"METRICS_SUBSYSTEM" default:"prices"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings and the default start date.
func (c Config) Validate() error {
	switch c.PriceProvider {
	case ProviderYahoo, ProviderTwelveData:
	default:
		return fmt.Errorf("PRICE_PROVIDER %q: want %s or %s", c.PriceProvider, ProviderYahoo, ProviderTwelveData)
	}
	switch c.CloseField {
	case "close", "adj_close":
	default:
		return fmt.Errorf("CLOSE_FIELD %q: want close or adj_close", c.CloseField)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER %q: want %s or %s", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if _, err := c.DefaultStartDate(); err != nil {
		return err
	}
	return nil
}

// DefaultStartDate parses DEFAULT_START as a calendar date in UTC.
func (c Config) DefaultStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.DefaultStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("DEFAULT_START %q: %w", c.DefaultStart, err)
	}
	return t, nil
}

// RedisEnabled reports whether a Redis host is configured.
func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port for the Redis client.
func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}
