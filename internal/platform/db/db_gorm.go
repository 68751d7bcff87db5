// Package db opens the gorm connection that backs the symbol list.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	symbolentity "stock_explorer/internal/feature/symbollist/domain/entity"
)

const defaultRetryInterval = 3 * time.Second

// Config selects the driver and connection string.
type Config struct {
	Driver         string // "sqlite" or "postgres"
	DSN            string // file path for sqlite, key=value or URL for postgres
	ConnectTimeout time.Duration
	RetryInterval  time.Duration
}

// Dialector returns the gorm dialector for cfg.Driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// OpenDB connects with retries and returns the handle.
func OpenDB(cfg Config) (*gorm.DB, error) {
	if _, err := Dialector(cfg.Driver, cfg.DSN); err != nil {
		return nil, err
	}
	opener := func(dsn string) (*gorm.DB, error) {
		d, _ := Dialector(cfg.Driver, dsn)
		return gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	}
	return ConnectWithRetry(cfg.DSN, cfg.ConnectTimeout, cfg.RetryInterval, opener)
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
// A non-positive interval uses the default of 3s.
func ConnectWithRetry(dsn string, timeout, interval time.Duration, opener func(dsn string) (*gorm.DB, error)) (*gorm.DB, error) {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// Migrate creates or updates the tables this service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&symbolentity.Symbol{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
