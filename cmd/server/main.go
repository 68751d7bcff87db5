package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"stock_explorer/internal/app/di"
	"stock_explorer/internal/app/router"
	dashboardhandler "stock_explorer/internal/feature/dashboard/transport/handler"
	priceshandler "stock_explorer/internal/feature/prices/transport/handler"
	symbollistadapters "stock_explorer/internal/feature/symbollist/adapters"
	symbollisthandler "stock_explorer/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_explorer/internal/feature/symbollist/usecase"
	"stock_explorer/internal/platform/cache"
	"stock_explorer/internal/platform/chart"
	"stock_explorer/internal/platform/config"
	infradb "stock_explorer/internal/platform/db"
	platformhandler "stock_explorer/internal/platform/http/handler"
	"stock_explorer/internal/platform/logger"
	"stock_explorer/internal/platform/metrics"
	infraredis "stock_explorer/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	gin.SetMode(cfg.GinMode)

	defaultStart, err := cfg.DefaultStartDate()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(infradb.Config{
		Driver:         cfg.DBDriver,
		DSN:            cfg.DBDSN,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()
	}
	if cfg.RunMigrations {
		if err := infradb.Migrate(db); err != nil {
			return err
		}
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Options{Addr: cfg.RedisAddr(), Password: cfg.RedisPassword})
		if err != nil {
			slog.Warn("redis unavailable, running without cache", "addr", cfg.RedisAddr(), "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	symbolRepo := cache.NewCachingSymbolRepository(rdb, cfg.SymbolCacheTTL, symbollistadapters.NewSymbolRepository(db), "symbols")
	if err := seedSymbols(ctx, cfg.SymbolsSeedFile, symbolRepo); err != nil {
		return err
	}

	market, err := di.NewMarket(cfg.PriceProvider)
	if err != nil {
		return err
	}

	// Usecase
	m := metrics.New(cfg.MetricsNamespace, cfg.MetricsSubsystem)
	pricesSvc := di.NewPricesService(market, cfg.CloseField, m)
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)

	// Handler
	var png priceshandler.PNGRenderer
	if cfg.ChartPNGEnabled {
		png = chart.NewSnapshotter()
	}
	pricesH := priceshandler.NewPricesHandler(pricesSvc, png, defaultStart)
	symbolH := symbollisthandler.NewSymbolHandler(symbolUC)
	dashboardH := dashboardhandler.NewDashboardHandler(symbolUC, dashboardhandler.Options{
		DefaultSymbol: cfg.DefaultSymbol,
		DefaultStart:  defaultStart,
		PNGEnabled:    cfg.ChartPNGEnabled,
	})

	checks := map[string]platformhandler.PingFunc{
		"db": func(ctx context.Context) error { return infradb.Ping(ctx, db) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	ready := platformhandler.Ready(2*time.Second, checks)

	r := router.NewRouter(dashboardH, pricesH, symbolH, ready, m.Handler())

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("http server listening", "addr", srv.Addr, "provider", cfg.PriceProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	return group.Wait()
}

// seedSymbols loads the seed file into the symbol table. A missing file is not an error.
func seedSymbols(ctx context.Context, path string, repo symbollistusecase.SymbolSeeder) error {
	if path == "" {
		return nil
	}
	symbols, err := symbollistadapters.LoadSeedFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("symbol seed file not found, skipping", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	n, err := symbollistusecase.SeedSymbols(ctx, repo, symbols)
	if err != nil {
		return err
	}
	slog.Info("symbols seeded", "count", n, "path", path)
	return nil
}
