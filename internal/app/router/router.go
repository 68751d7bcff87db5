package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dashboardhandler "stock_explorer/internal/feature/dashboard/transport/handler"
	priceshandler "stock_explorer/internal/feature/prices/transport/handler"
	symbollisthandler "stock_explorer/internal/feature/symbollist/transport/handler"
	platformhandler "stock_explorer/internal/platform/http/handler"
	"stock_explorer/internal/platform/middleware"
)

func NewRouter(dashboard *dashboardhandler.DashboardHandler, prices *priceshandler.PricesHandler,
	symbol *symbollisthandler.SymbolHandler, ready gin.HandlerFunc, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	// probes
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.OPTIONS("/healthz", platformhandler.Health)
	if ready != nil {
		r.GET("/readyz", ready)
	}
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	// pages
	r.GET("/", dashboard.Index)
	r.GET("/chart/:symbol", prices.GetChartHandler)
	r.GET("/chart/:symbol/png", prices.GetChartPNGHandler)

	api := r.Group("/api")
	{
		api.GET("/prices/:symbol", prices.GetPricesHandler)
		api.GET("/symbols", symbol.List)
	}

	return r
}
