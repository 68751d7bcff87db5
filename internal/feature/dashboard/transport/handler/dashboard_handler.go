// Package handler serves the dashboard page: the input form and the chart frame.
package handler

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"stock_explorer/internal/feature/prices/domain/entity"
	symbolentity "stock_explorer/internal/feature/symbollist/domain/entity"
	"stock_explorer/internal/platform/chart"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// SymbolLister provides the suggestions for the symbol field.
type SymbolLister interface {
	ListActiveSymbols(ctx context.Context) ([]symbolentity.Symbol, error)
}

// Options holds the form defaults.
type Options struct {
	DefaultSymbol string
	DefaultStart  time.Time
	PNGEnabled    bool
}

// DashboardHandler renders the dashboard. It keeps no per-user state: every
// render is built from the query string alone.
type DashboardHandler struct {
	symbols SymbolLister
	opts    Options
	now     func() time.Time
}

// NewDashboardHandler creates a DashboardHandler. symbols may be nil.
func NewDashboardHandler(symbols SymbolLister, opts Options) *DashboardHandler {
	if opts.DefaultSymbol == "" {
		opts.DefaultSymbol = "AAPL"
	}
	return &DashboardHandler{symbols: symbols, opts: opts, now: time.Now}
}

type pageData struct {
	Symbol   string
	Start    string
	End      string
	SMA      int
	MaxSMA   int
	Symbols  []symbolentity.Symbol
	ChartURL string
	PNGURL   string
	Error    string
}

// Index renders the dashboard for ?symbol, ?start, ?end and ?sma.
//
// Example:
// GET /?symbol=MSFT&start=2023-01-01&end=2023-12-31
func (h *DashboardHandler) Index(c *gin.Context) {
	today := entity.Today(h.now()).Format(entity.DateLayout)

	data := pageData{
		Symbol: strings.ToUpper(strings.TrimSpace(c.DefaultQuery("symbol", h.opts.DefaultSymbol))),
		Start:  c.DefaultQuery("start", h.opts.DefaultStart.Format(entity.DateLayout)),
		End:    c.DefaultQuery("end", today),
	}
	if data.Symbol == "" {
		data.Symbol = h.opts.DefaultSymbol
	}
	data.SMA = chart.ParseSMAPeriod(c.Query("sma"))
	data.MaxSMA = chart.MaxSMAPeriod
	data.Symbols = h.suggestions(c.Request.Context())

	status := http.StatusOK
	if msg := dateProblem(data.Start, data.End); msg != "" {
		data.Error = msg
		status = http.StatusBadRequest
	} else {
		q := url.Values{}
		q.Set("start", data.Start)
		q.Set("end", data.End)
		if data.SMA > 0 {
			q.Set("sma", strconv.Itoa(data.SMA))
		}
		path := "/chart/" + url.PathEscape(data.Symbol)
		data.ChartURL = path + "?" + q.Encode()
		if h.opts.PNGEnabled {
			data.PNGURL = path + "/png?" + q.Encode()
		}
	}

	c.Render(status, render.HTML{Template: templates, Name: "dashboard.html", Data: data})
}

func (h *DashboardHandler) suggestions(ctx context.Context) []symbolentity.Symbol {
	if h.symbols == nil {
		return nil
	}
	symbols, err := h.symbols.ListActiveSymbols(ctx)
	if err != nil {
		slog.Warn("symbol suggestions unavailable", "error", err)
		return nil
	}
	return symbols
}

// dateProblem returns the message shown in place of the chart, or "".
func dateProblem(start, end string) string {
	if _, err := time.Parse(entity.DateLayout, start); err != nil {
		return fmt.Sprintf("Invalid start date %q. Use YYYY-MM-DD.", start)
	}
	if _, err := time.Parse(entity.DateLayout, end); err != nil {
		return fmt.Sprintf("Invalid end date %q. Use YYYY-MM-DD.", end)
	}
	return ""
}
