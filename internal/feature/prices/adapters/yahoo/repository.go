package yahoo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/guregu/null/v5"
	"github.com/tidwall/gjson"

	"stock_explorer/internal/feature/prices/domain/entity"
	"stock_explorer/internal/feature/prices/usecase"
)

// YahooMarket is a MarketRepository backed by the Yahoo Finance v8 chart endpoint.
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// Compile-time check that YahooMarket implements MarketRepository.
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket creates a YahooMarket with the given config and HTTP client.
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// quote columns as named in the response, mapped to table column names.
var quoteColumns = map[string]string{
	"open":   entity.ColumnOpen,
	"high":   entity.ColumnHigh,
	"low":    entity.ColumnLow,
	"close":  entity.ColumnClose,
	"volume": entity.ColumnVolume,
}

// GetDailyHistory fetches daily bars for symbol in [start, end).
// Null quote entries (halted sessions, partial days) are kept as missing values.
func (y *YahooMarket) GetDailyHistory(ctx context.Context, symbol string, start, end time.Time) (entity.RawTable, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")
	q.Set("includeAdjustedClose", "true")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.RawTable{}, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		if res.StatusCode >= 400 {
			return entity.RawTable{}, fmt.Errorf("yahoo http %d", res.StatusCode)
		}
		return entity.RawTable{}, fmt.Errorf("yahoo decode: invalid json")
	}

	doc := gjson.ParseBytes(body)
	if e := doc.Get("chart.error"); e.Exists() && e.Type != gjson.Null {
		return entity.RawTable{}, fmt.Errorf("yahoo api error: %s", e.Get("description").String())
	}
	if res.StatusCode >= 400 {
		return entity.RawTable{}, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	return parseChart(symbol, doc.Get("chart.result.0")), nil
}

// parseChart converts one chart result into a raw table. A result without timestamps is an
// empty table, which is how Yahoo answers a range with no trading days.
func parseChart(symbol string, result gjson.Result) entity.RawTable {
	table := entity.RawTable{Symbol: symbol, Columns: map[string][]null.Float{}}

	stamps := result.Get("timestamp").Array()
	if len(stamps) == 0 {
		return table
	}

	loc := exchangeLocation(result.Get("meta"))
	table.Dates = make([]time.Time, len(stamps))
	for i, ts := range stamps {
		table.Dates[i] = time.Unix(ts.Int(), 0).In(loc)
	}

	quote := result.Get("indicators.quote.0")
	for field, column := range quoteColumns {
		table.Columns[column] = floatColumn(quote.Get(field), len(stamps))
	}
	if adj := result.Get("indicators.adjclose.0.adjclose"); adj.Exists() {
		table.Columns[entity.ColumnAdjClose] = floatColumn(adj, len(stamps))
	}
	return table
}

// floatColumn reads a JSON array of numbers or nulls into exactly n cells.
func floatColumn(arr gjson.Result, n int) []null.Float {
	out := make([]null.Float, n)
	for i, v := range arr.Array() {
		if i >= n {
			break
		}
		if v.Type == gjson.Number {
			out[i] = null.FloatFrom(v.Float())
		}
	}
	return out
}

// exchangeLocation builds the exchange's zone from the response meta so that timestamps land on
// the exchange's calendar date.
func exchangeLocation(meta gjson.Result) *time.Location {
	name := meta.Get("exchangeTimezoneName").String()
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if off := meta.Get("gmtoffset"); off.Exists() {
		if name == "" {
			name = meta.Get("timezone").String()
		}
		return time.FixedZone(name, int(off.Int()))
	}
	return time.UTC
}
