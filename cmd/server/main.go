package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"store-route-service/internal/api"
	"store-route-service/internal/app"
	"store-route-service/internal/config"
	"store-route-service/internal/platform/db"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/platform/telemetry"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const serviceName = "store-route-service"

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := app.NewLogger(os.Stdout, serviceName, cfg.ServiceVersion, cfg.LogLevel)
	if envErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: cfg.ServiceVersion,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	m := metrics.New()

	var pg *sql.DB
	if cfg.DatabaseURL != "" {
		pg, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pg.Close()
	}

	cat, err := app.OpenCatalog(ctx, cfg, pg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load store catalog")
	}

	gw, closeGateway, err := app.NewGateway(ctx, cfg, pg, log, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build travel-time gateway")
	}
	defer closeGateway()

	router := api.NewRouter(api.RouterConfig{
		Catalog:   cat,
		Brands:    cat.Brands(),
		Optimizer: app.NewOptimizer(cfg, gw, log, m),
		Logger:    log,
		Metrics:   m,
		RateLimit: cfg.RateLimit,
	})

	// Write timeout leaves room for the full gateway retry budget.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("catalog", cfg.CatalogSource).Int("stores", cat.Len()).
			Str("gateway_mode", cfg.Gateway.Mode).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
