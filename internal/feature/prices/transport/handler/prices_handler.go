// Package handler provides the HTTP handlers of the prices feature.
package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"stock_explorer/internal/feature/prices/domain"
	"stock_explorer/internal/feature/prices/domain/entity"
	"stock_explorer/internal/feature/prices/transport/http/dto"
	"stock_explorer/internal/platform/chart"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PricesUsecase defines the usecase the handler depends on.
// Following Go convention, the interface lives with its consumer.
type PricesUsecase interface {
	GetPriceSeries(ctx context.Context, req entity.PriceRequest) (entity.NormalizedSeries, error)
}

// PNGRenderer turns a series into a PNG image.
type PNGRenderer interface {
	RenderPNG(ctx context.Context, series entity.NormalizedSeries, o chart.Options) ([]byte, error)
}

// PricesHandler serves price series as JSON, as a chart page, and as a PNG download.
type PricesHandler struct {
	uc           PricesUsecase
	png          PNGRenderer
	defaultStart time.Time
	now          func() time.Time
}

// NewPricesHandler creates a PricesHandler. png may be nil, which disables the PNG endpoint.
func NewPricesHandler(uc PricesUsecase, png PNGRenderer, defaultStart time.Time) *PricesHandler {
	return &PricesHandler{uc: uc, png: png, defaultStart: defaultStart, now: time.Now}
}

// GetPricesHandler returns the cleaned closing prices for a symbol.
//
// Example:
// GET /api/prices/AAPL?start=2023-01-01&end=2023-02-01
func (h *PricesHandler) GetPricesHandler(c *gin.Context) {
	req, err := h.priceRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out, err := h.uc.GetPriceSeries(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrNoDataAvailable) {
			c.JSON(http.StatusNotFound, dto.NoDataResponse{
				Error:   domain.ErrNoDataAvailable.Error(),
				Dropped: domain.DroppedRows(err),
			})
			return
		}
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	points := make([]dto.PricePointResponse, 0, len(out.Series.Points))
	for _, p := range out.Series.Points {
		points = append(points, dto.PricePointResponse{
			Date:  p.Date.Format(entity.DateLayout),
			Close: p.Close,
		})
	}

	c.JSON(http.StatusOK, dto.PriceSeriesResponse{
		Symbol:  out.Series.Symbol,
		Start:   req.Start.Format(entity.DateLayout),
		End:     req.End.Format(entity.DateLayout),
		Dropped: out.Dropped,
		Points:  points,
	})
}

// GetChartHandler renders the closing-price chart as an HTML page.
//
// Example:
// GET /chart/AAPL?start=2023-01-01&end=2023-06-30&sma=20
func (h *PricesHandler) GetChartHandler(c *gin.Context) {
	out, o, ok := h.seriesForChart(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderClosingPrices(&buf, out, o); err != nil {
		slog.Error("render chart", "symbol", out.Series.Symbol, "error", err)
		c.String(http.StatusInternalServerError, "failed to render chart")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetChartPNGHandler returns the chart as a PNG attachment.
//
// Example:
// GET /chart/AAPL/png?start=2023-01-01
func (h *PricesHandler) GetChartPNGHandler(c *gin.Context) {
	if h.png == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "chart snapshots are disabled"})
		return
	}

	out, o, ok := h.seriesForChart(c)
	if !ok {
		return
	}

	img, err := h.png.RenderPNG(c.Request.Context(), out, o)
	if err != nil {
		slog.Error("snapshot chart", "symbol", out.Series.Symbol, "error", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_closing_prices.png"`, out.Series.Symbol))
	c.Data(http.StatusOK, "image/png", img)
}

// seriesForChart runs the usecase for the chart endpoints and writes the error page itself.
func (h *PricesHandler) seriesForChart(c *gin.Context) (entity.NormalizedSeries, chart.Options, bool) {
	req, err := h.priceRequest(c)
	if err != nil {
		h.renderMessage(c, http.StatusBadRequest, req.Symbol, err.Error())
		return entity.NormalizedSeries{}, chart.Options{}, false
	}

	out, err := h.uc.GetPriceSeries(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrNoDataAvailable) {
			h.renderMessage(c, http.StatusNotFound, req.Symbol, "No historical data found for the given symbol and date range.")
			return entity.NormalizedSeries{}, chart.Options{}, false
		}
		h.renderMessage(c, http.StatusBadGateway, req.Symbol, err.Error())
		return entity.NormalizedSeries{}, chart.Options{}, false
	}

	return out, chart.Options{SMAPeriod: chart.ParseSMAPeriod(c.Query("sma"))}, true
}

func (h *PricesHandler) renderMessage(c *gin.Context, code int, symbol, msg string) {
	c.Render(code, render.HTML{
		Template: templates,
		Name:     "no_data.html",
		Data:     gin.H{"Symbol": symbol, "Message": msg},
	})
}

// priceRequest reads :symbol, ?start and ?end. Missing dates default to the configured start and today.
func (h *PricesHandler) priceRequest(c *gin.Context) (entity.PriceRequest, error) {
	symbol := c.Param("symbol")

	start := h.defaultStart
	if s := c.Query("start"); s != "" {
		t, err := time.Parse(entity.DateLayout, s)
		if err != nil {
			return entity.NewPriceRequest(symbol, time.Time{}, time.Time{}), fmt.Errorf("invalid start date %q: want YYYY-MM-DD", s)
		}
		start = t
	}

	end := entity.Today(h.now())
	if s := c.Query("end"); s != "" {
		t, err := time.Parse(entity.DateLayout, s)
		if err != nil {
			return entity.NewPriceRequest(symbol, time.Time{}, time.Time{}), fmt.Errorf("invalid end date %q: want YYYY-MM-DD", s)
		}
		end = t
	}

	return entity.NewPriceRequest(symbol, start, end), nil
}
