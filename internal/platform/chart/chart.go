// Package chart renders closing-price series as interactive HTML charts and PNG snapshots.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	talib "github.com/markcheno/go-talib"

	"stock_explorer/internal/feature/prices/domain/entity"
)

const (
	colorPage      = "rgba(240, 242, 246, 1)"
	colorGrid      = "LightGrey"
	colorClose     = "#1f77b4"
	colorSMA       = "#ff7f0e"
	defaultWidthPx = 900
	defaultHeight  = 500
)

// MaxSMAPeriod is the longest moving-average window accepted from user input.
const MaxSMAPeriod = 200

// ParseSMAPeriod reads a user-supplied window. Anything that is not a number in
// 2..MaxSMAPeriod disables the overlay and yields 0.
func ParseSMAPeriod(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 1 || n > MaxSMAPeriod {
		return 0
	}
	return n
}

// ErrEmptySeries is returned when there is nothing to plot.
var ErrEmptySeries = errors.New("chart: series has no points")

// Options tunes the rendered chart. Zero values select the defaults.
type Options struct {
	// SMAPeriod overlays a simple moving average of the closes when greater than 1.
	SMAPeriod int
	Width     int
	Height    int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defaultWidthPx
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// RenderClosingPrices writes a standalone HTML page with a line chart of the series' closing prices.
func RenderClosingPrices(w io.Writer, series entity.NormalizedSeries, o Options) error {
	line, err := BuildClosingPrices(series, o)
	if err != nil {
		return err
	}
	return line.Render(w)
}

// BuildClosingPrices assembles the line chart without rendering it.
func BuildClosingPrices(series entity.NormalizedSeries, o Options) (*charts.Line, error) {
	points := series.Series.Points
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}
	width, height := o.size()

	subtitle := ""
	if series.Dropped > 0 {
		subtitle = fmt.Sprintf("%d rows with a missing closing price were dropped", series.Dropped)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       fmt.Sprintf("%s Closing Prices", series.Series.Symbol),
			Width:           fmt.Sprintf("%dpx", width),
			Height:          fmt.Sprintf("%dpx", height),
			BackgroundColor: colorPage,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s Closing Prices", series.Series.Symbol),
			Subtitle: subtitle,
			Left:     "center",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(o.SMAPeriod > 1), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  opts.Bool(true),
					Type:  "png",
					Name:  fmt.Sprintf("%s_closing_prices", series.Series.Symbol),
					Title: "Download plot as a png",
				},
			},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			Type:      "category",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorGrid}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Close Price",
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorGrid}},
		}),
	)

	line.SetXAxis(xAxis(points))
	line.AddSeries("Close", closeData(points),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorClose, Width: 2}),
	)

	if sma := smaData(series.Series.Closes(), o.SMAPeriod); sma != nil {
		line.AddSeries(fmt.Sprintf("SMA(%d)", o.SMAPeriod), sma,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorSMA, Width: 1, Type: "dashed"}),
		)
	}
	return line, nil
}

func xAxis(points []entity.PricePoint) []string {
	x := make([]string, len(points))
	for i, p := range points {
		x[i] = p.Date.Format(entity.DateLayout)
	}
	return x
}

func closeData(points []entity.PricePoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: p.Close}
	}
	return data
}

// smaData returns nil when the overlay is disabled or the series is shorter than the period.
// Points inside the look-back window are blank.
func smaData(closes []float64, period int) []opts.LineData {
	if period <= 1 || len(closes) < period {
		return nil
	}
	sma := talib.Sma(closes, period)
	data := make([]opts.LineData, len(closes))
	for i := range closes {
		if i < period-1 || i >= len(sma) || math.IsNaN(sma[i]) {
			data[i] = opts.LineData{Value: nil}
			continue
		}
		data[i] = opts.LineData{Value: round(sma[i], 4)}
	}
	return data
}

func round(val float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(val*scale) / scale
}
