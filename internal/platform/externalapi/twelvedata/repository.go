package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v5"

	"stock_explorer/internal/feature/prices/domain/entity"
	"stock_explorer/internal/feature/prices/usecase"
	"stock_explorer/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataMarket is a MarketRepository backed by the Twelve Data time_series endpoint.
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// Compile-time check that TwelveDataMarket implements MarketRepository.
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket creates a TwelveDataMarket with the given config and HTTP client.
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// GetDailyHistory fetches daily bars for symbol in [start, end), oldest first.
func (t *TwelveDataMarket) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (entity.RawTable, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("start_date", start.Format(entity.DateLayout))
	// end_date is inclusive upstream
	q.Set("end_date", end.AddDate(0, 0, -1).Format(entity.DateLayout))
	q.Set("order", "ASC")
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.RawTable{}, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return entity.RawTable{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return entity.RawTable{}, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.RawTable{}, err
	}
	if body.Status == "error" {
		return entity.RawTable{}, fmt.Errorf("twelvedata: %s", body.Message)
	}

	return toRawTable(symbol, body), nil
}

func toRawTable(symbol string, body dto.TimeSeriesResponse) entity.RawTable {
	loc := time.UTC
	if body.Meta.ExchangeTimezone != "" {
		if l, err := time.LoadLocation(body.Meta.ExchangeTimezone); err == nil {
			loc = l
		}
	}

	n := len(body.Values)
	table := entity.RawTable{
		Symbol: symbol,
		Dates:  make([]time.Time, n),
		Columns: map[string][]null.Float{
			entity.ColumnOpen:   make([]null.Float, n),
			entity.ColumnHigh:   make([]null.Float, n),
			entity.ColumnLow:    make([]null.Float, n),
			entity.ColumnClose:  make([]null.Float, n),
			entity.ColumnVolume: make([]null.Float, n),
		},
	}

	// A malformed cell is left missing so the normalizer drops only that row.
	for i, v := range body.Values {
		tm, err := time.ParseInLocation("2006-01-02 15:04:05", v.Datetime, loc)
		if err != nil {
			tm, err = time.ParseInLocation(entity.DateLayout, v.Datetime, loc)
			if err != nil {
				slog.Warn("twelvedata: unparsable datetime, row left undated", "symbol", table.Symbol, "datetime", v.Datetime)
				tm = time.Time{}
			}
		}
		table.Dates[i] = tm

		fields := []struct {
			column, name, raw string
		}{
			{entity.ColumnOpen, "open", v.Open},
			{entity.ColumnHigh, "high", v.High},
			{entity.ColumnLow, "low", v.Low},
			{entity.ColumnClose, "close", v.Close},
			{entity.ColumnVolume, "volume", v.Volume},
		}
		for _, f := range fields {
			cell, err := parseCell(f.raw)
			if err != nil {
				slog.Warn("twelvedata: unparsable value, treated as missing",
					"symbol", table.Symbol, "datetime", v.Datetime, "field", f.name, "value", f.raw)
			}
			table.Columns[f.column][i] = cell
		}
	}
	return table
}

// parseCell reads a numeric string; an empty string is a missing value.
func parseCell(s string) (null.Float, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, err
	}
	return null.FloatFrom(f), nil
}
