package chart

import (
	"bytes"
	"context"
	"encoding/base64"
	"time"

	"github.com/chromedp/chromedp"

	"stock_explorer/internal/feature/prices/domain/entity"
)

const (
	defaultSnapshotTimeout = 20 * time.Second
	defaultSettle          = 1500 * time.Millisecond
)

// Snapshotter renders chart HTML to PNG in headless Chrome.
type Snapshotter struct {
	Width   int
	Height  int
	Timeout time.Duration
	// Settle is how long to wait after the page is ready so the chart animation finishes.
	Settle time.Duration
}

// NewSnapshotter returns a Snapshotter sized like the default chart.
func NewSnapshotter() *Snapshotter {
	return &Snapshotter{
		Width:   defaultWidthPx + 40,
		Height:  defaultHeight + 40,
		Timeout: defaultSnapshotTimeout,
		Settle:  defaultSettle,
	}
}

// Snapshot loads html into a fresh browser tab and returns a full-page PNG screenshot.
func (s *Snapshotter) Snapshot(ctx context.Context, html []byte) ([]byte, error) {
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultSnapshotTimeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(parent, timeout)
	defer cancelTimeout()

	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(s.Width), int64(s.Height)),
		chromedp.Navigate(dataURI(html)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.Settle),
		chromedp.FullScreenshot(&screenshot, 100), // 100 selects PNG
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, err
	}
	return screenshot, nil
}

// RenderPNG renders the closing-price chart and snapshots it.
func (s *Snapshotter) RenderPNG(ctx context.Context, series entity.NormalizedSeries, o Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderClosingPrices(&buf, series, o); err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, buf.Bytes())
}

func dataURI(html []byte) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
}
