// Command snapshot fetches one symbol's closing prices and writes the chart to a file.
//
// Usage:
//
//	snapshot -symbol MSFT -start 2023-01-01 -end 2024-01-01 -sma 20 -out msft.png
//
// The output format follows the file extension: .html keeps the interactive chart,
// .png renders it in headless Chrome.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"stock_explorer/internal/app/di"
	"stock_explorer/internal/feature/prices/domain"
	"stock_explorer/internal/feature/prices/domain/entity"
	"stock_explorer/internal/platform/chart"
	"stock_explorer/internal/platform/logger"
)

func main() {
	var (
		symbol   = flag.String("symbol", "AAPL", "ticker symbol")
		start    = flag.String("start", "2023-01-01", "first date, YYYY-MM-DD")
		end      = flag.String("end", time.Now().UTC().Format(entity.DateLayout), "end date (exclusive), YYYY-MM-DD")
		sma      = flag.Int("sma", 0, "moving average period in days, 0 disables")
		out      = flag.String("out", "", "output file, .html or .png (default SYMBOL_closing_prices.html)")
		provider = flag.String("provider", "yahoo", "price provider: yahoo or twelvedata")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger.Setup(*logLevel, "text", os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *provider, *symbol, *start, *end, *sma, *out); err != nil {
		var noData *domain.NoDataAvailableError
		if errors.As(err, &noData) {
			slog.Error("no historical data found for the given symbol and date range", "symbol", *symbol, "dropped", noData.Dropped)
		} else {
			slog.Error("snapshot failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, provider, symbol, startStr, endStr string, sma int, out string) error {
	start, err := time.Parse(entity.DateLayout, startStr)
	if err != nil {
		return fmt.Errorf("invalid -start %q: %w", startStr, err)
	}
	end, err := time.Parse(entity.DateLayout, endStr)
	if err != nil {
		return fmt.Errorf("invalid -end %q: %w", endStr, err)
	}

	req := entity.NewPriceRequest(symbol, start, end)
	if out == "" {
		out = req.Symbol + "_closing_prices.html"
	}
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".html" && ext != ".htm" && ext != ".png" {
		return fmt.Errorf("unsupported output extension %q: want .html or .png", filepath.Ext(out))
	}

	market, err := di.NewMarket(provider)
	if err != nil {
		return err
	}
	series, err := di.NewPricesService(market, "", nil).GetPriceSeries(ctx, req)
	if err != nil {
		return err
	}
	opts := chart.Options{SMAPeriod: sma}

	var data []byte
	switch ext {
	case ".html", ".htm":
		var buf bytes.Buffer
		if err := chart.RenderClosingPrices(&buf, series, opts); err != nil {
			return err
		}
		data = buf.Bytes()
	case ".png":
		data, err = chart.NewSnapshotter().RenderPNG(ctx, series, opts)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	slog.Info("chart written", "path", out, "points", len(series.Series.Points), "dropped", series.Dropped)
	return nil
}
