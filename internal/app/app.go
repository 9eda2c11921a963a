package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/example/hotel-booking-workflow/internal/config"
	"github.com/example/hotel-booking-workflow/internal/httpapi"
	"github.com/example/hotel-booking-workflow/internal/obs"
	"github.com/example/hotel-booking-workflow/internal/routes"
	"github.com/example/hotel-booking-workflow/internal/supplier"
	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	Router   http.Handler
	Registry *httpapi.Registry
	Metrics  *obs.Metrics
	Logger   *slog.Logger
}

func New(cfg *config.Config) *App {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	customRegistry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(customRegistry)

	api := supplier.New(cfg.Supplier.BaseURL, cfg.Supplier.APIKey, cfg.SupplierTimeout(), logger, metrics)

	registry := httpapi.NewRegistry()
	rl := httpapi.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimitWindow())
	h := httpapi.NewHandler(api, registry, rl, metrics, logger, cfg.LocationCacheTTL())

	router := routes.GetRoutes(h, metrics, logger)

	return &App{
		Router:   router,
		Registry: registry,
		Metrics:  metrics,
		Logger:   logger,
	}
}
