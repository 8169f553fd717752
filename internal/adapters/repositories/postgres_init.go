package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"store-route-service/internal/domain"
)

// Initialize the Postgres schema for the store catalog and the duration cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStoresQuery := `
	CREATE TABLE IF NOT EXISTS stores (
		brand TEXT NOT NULL,
		number INTEGER NOT NULL,
		brand_name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		lon DOUBLE PRECISION NOT NULL DEFAULT 0,
		hours JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (brand, number)
	);
	`

	createDurationCacheQuery := `
	CREATE TABLE IF NOT EXISTS duration_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		duration_seconds BIGINT NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_duration_cache_fetched_at
	ON duration_cache(fetched_at);
	`

	statements := []string{
		createStoresQuery,
		createDurationCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert stores into the stores table. Returns the number of rows written.
func SeedStores(ctx context.Context, db *sql.DB, stores []domain.Store) (int, error) {
	if db == nil {
		return 0, errors.New("seed stores: DB is nil")
	}
	if len(stores) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed stores: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO stores (brand, number, brand_name, address, lat, lon, hours)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (brand, number) DO UPDATE
	SET brand_name = EXCLUDED.brand_name,
		address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		hours = EXCLUDED.hours;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed stores: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stores {
		hours, err := encodeHours(s.Hours)
		if err != nil {
			return 0, fmt.Errorf("seed stores: %s: %w", s.Key, err)
		}
		if _, err := stmt.ExecContext(ctx,
			s.Key.Brand, s.Key.Number, s.BrandName, s.Address,
			s.Location.Lat, s.Location.Lon, hours,
		); err != nil {
			return 0, fmt.Errorf("seed stores: insert %s: %w", s.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed stores: commit tx: %w", err)
	}

	return len(stores), nil
}

func encodeHours(h domain.Hours) (string, error) {
	if h == nil {
		return "{}", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeHours(raw []byte) (domain.Hours, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var h domain.Hours
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	return h, nil
}
