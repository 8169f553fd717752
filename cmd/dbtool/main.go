package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"store-route-service/internal/adapters/repositories"
	"store-route-service/internal/app"
	"store-route-service/internal/catalog"
	"store-route-service/internal/config"
	"store-route-service/internal/domain"
	"store-route-service/internal/platform/db"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// dbtool creates the Postgres schema and seeds the stores table from the JSON dataset.
func main() {
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding stores")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := app.NewLogger(os.Stderr, "dbtool", cfg.ServiceVersion, cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()
	pg, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pg.Close()

	if err := initAndSeed(ctx, pg, cfg, *schemaOnly, log); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, pg *sql.DB, cfg config.Config, schemaOnly bool, log zerolog.Logger) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, pg); err != nil {
		return err
	}
	log.Info().Msg("schema ready")

	if schemaOnly {
		return nil
	}

	brands, err := catalog.LoadBrands(cfg.BrandsFile)
	if err != nil {
		return err
	}
	repo := catalog.NewJSONRepository(cfg.DataDir, brands, log)

	var stores []domain.Store
	for _, b := range brands {
		list, err := repo.ListStores(ctx, b.Code)
		if err != nil {
			return fmt.Errorf("read %s: %w", b.Code, err)
		}
		stores = append(stores, list...)
	}

	n, err := repositories.SeedStores(ctx, pg, stores)
	if err != nil {
		return err
	}
	log.Info().Int("stores", n).Str("data_dir", cfg.DataDir).Msg("seeding complete")
	return nil
}
