// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"stock_explorer/internal/feature/prices/adapters/yahoo"
	pricesusecase "stock_explorer/internal/feature/prices/usecase"
	"stock_explorer/internal/platform/config"
	"stock_explorer/internal/platform/externalapi/twelvedata"
	infrahttp "stock_explorer/internal/platform/http"
)

// NewMarket creates the upstream price source selected by provider, with its own HTTP client.
func NewMarket(provider string) (pricesusecase.MarketRepository, error) {
	switch provider {
	case "", config.ProviderYahoo:
		cfg, err := yahoo.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("yahoo config: %w", err)
		}
		return yahoo.NewYahooMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout)), nil
	case config.ProviderTwelveData:
		cfg, err := twelvedata.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("twelvedata config: %w", err)
		}
		if cfg.TwelveDataAPIKey == "" {
			return nil, fmt.Errorf("twelvedata: TWELVE_DATA_API_KEY is not set")
		}
		return twelvedata.NewTwelveDataMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout)), nil
	default:
		return nil, fmt.Errorf("unknown price provider %q", provider)
	}
}
