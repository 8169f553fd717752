// Package app builds the shared object graph used by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"store-route-service/internal/adapters/cache"
	"store-route-service/internal/adapters/gateway"
	"store-route-service/internal/adapters/repositories"
	"store-route-service/internal/catalog"
	"store-route-service/internal/config"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/ports"
	"store-route-service/internal/services"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger. Unknown levels fall back to info.
func NewLogger(w io.Writer, service, version, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}

// OpenCatalog loads the brand table and the store catalog from the configured source.
// db is only required when the source is postgres.
func OpenCatalog(ctx context.Context, cfg config.Config, db *sql.DB, log zerolog.Logger) (*catalog.Catalog, error) {
	brands, err := catalog.LoadBrands(cfg.BrandsFile)
	if err != nil {
		return nil, err
	}

	var repo ports.StoreRepository
	switch cfg.CatalogSource {
	case "json", "":
		repo = catalog.NewJSONRepository(cfg.DataDir, brands, log)
	case "postgres":
		if db == nil {
			return nil, errors.New("open catalog: postgres source needs DATABASE_URL")
		}
		repo = repositories.NewPostgresStoreRepository(db)
	default:
		return nil, fmt.Errorf("open catalog: unknown source %q", cfg.CatalogSource)
	}

	return catalog.Load(ctx, brands, repo, log)
}

// NewGateway builds the Google gateway. In matrix mode it is wrapped with a
// duration cache: Redis when REDIS_URL is set, otherwise Postgres when db is set.
// The returned close func releases the cache client.
func NewGateway(ctx context.Context, cfg config.Config, db *sql.DB, log zerolog.Logger, m *metrics.Metrics) (ports.TravelTimeGateway, func(), error) {
	noop := func() {}

	google := gateway.NewGoogleGateway(gateway.GoogleConfig{
		APIKey:     cfg.Gateway.APIKey,
		BaseURL:    cfg.Gateway.BaseURL,
		Mode:       gateway.Mode(cfg.Gateway.Mode),
		Timeout:    cfg.Gateway.Timeout,
		Attempts:   cfg.Gateway.Attempts,
		Backoff:    cfg.Gateway.Backoff,
		RatePerSec: cfg.Gateway.RatePerSec,
		Burst:      cfg.Gateway.Burst,
		Logger:     log,
		Metrics:    m,
	})
	if !google.Configured() {
		log.Warn().Msg("GOOGLE_API_KEY not set, routes are planned locally")
		return google, noop, nil
	}
	if gateway.Mode(cfg.Gateway.Mode) != gateway.ModeMatrix {
		return google, noop, nil
	}

	switch {
	case cfg.RedisURL != "":
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("new gateway: %w", err)
		}
		log.Info().Dur("ttl", cfg.CacheTTL).Msg("duration cache: redis")
		dc := cache.NewRedisDurationCache(client, cfg.CacheTTL, log)
		return gateway.NewCachedGateway(google, dc, log, m), func() { _ = client.Close() }, nil
	case db != nil:
		log.Info().Dur("ttl", cfg.CacheTTL).Msg("duration cache: postgres")
		dc := cache.NewSQLDurationCache(db, cfg.CacheTTL, log)
		return gateway.NewCachedGateway(google, dc, log, m), noop, nil
	}
	return google, noop, nil
}

func NewOptimizer(cfg config.Config, gw ports.TravelTimeGateway, log zerolog.Logger, m *metrics.Metrics) *services.RouteOptimizer {
	return services.NewRouteOptimizer(services.OptimizerConfig{
		Gateway:         gw,
		SpeedKmh:        cfg.LocalSpeedKmh,
		MaxTwoOptPasses: cfg.TwoOptPasses,
		Logger:          log,
		Metrics:         m,
	})
}
