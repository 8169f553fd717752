package api

import (
	"net/http"
	"store-route-service/internal/api/handlers"
	"store-route-service/internal/catalog"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/services"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Catalog   handlers.StoreCatalog
	Brands    catalog.Brands
	Optimizer services.Optimizer
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	// RateLimit is requests per minute per client IP on /stores and /routes; 0 disables it.
	RateLimit int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID(cfg.Logger))
	r.Use(accessLog(cfg.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)

	storeHandler := &handlers.StoreHandler{Catalog: cfg.Catalog, Brands: cfg.Brands, Now: time.Now}
	routeHandler := &handlers.RouteHandler{
		Catalog:   cfg.Catalog,
		Brands:    cfg.Brands,
		Optimizer: cfg.Optimizer,
	}

	r.Get("/health", handlers.Health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.Limit(cfg.RateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByRealIP),
				httprate.WithLimitHandler(handlers.TooManyRequests),
			))
		}
		r.Get("/stores/{brand}", storeHandler.List)
		r.Get("/stores/{brand}/{number}", storeHandler.Get)
		r.Post("/routes", routeHandler.Plan)
	})

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	return r
}
