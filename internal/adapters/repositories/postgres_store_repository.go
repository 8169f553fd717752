package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-service/internal/domain"
)

// Postgres-backed implementation of the StoreRepository port.
type PostgresStoreRepository struct{ DB *sql.DB }

func NewPostgresStoreRepository(db *sql.DB) *PostgresStoreRepository {
	return &PostgresStoreRepository{DB: db}
}

// Return all stores of a brand ordered by store number.
func (r *PostgresStoreRepository) ListStores(ctx context.Context, brand string) ([]domain.Store, error) {
	if r.DB == nil {
		return nil, errors.New("postgres store repository: DB is nil")
	}

	query := `
	SELECT
		number,
		brand_name,
		address,
		lat,
		lon,
		hours
	FROM stores
	WHERE brand = $1
	ORDER BY number;
	`
	rows, err := r.DB.QueryContext(ctx, query, brand)
	if err != nil {
		return nil, fmt.Errorf("list stores: query stores table: %w", err)
	}
	defer rows.Close()

	stores := make([]domain.Store, 0, 64)
	for rows.Next() {
		var (
			s     domain.Store
			hours []byte
		)
		if err := rows.Scan(&s.Key.Number, &s.BrandName, &s.Address, &s.Location.Lat, &s.Location.Lon, &hours); err != nil {
			return nil, fmt.Errorf("list stores: scan row: %w", err)
		}
		s.Key.Brand = brand
		if s.Hours, err = decodeHours(hours); err != nil {
			return nil, fmt.Errorf("list stores: %s: decode hours: %w", s.Key, err)
		}
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stores: row iteration: %w", err)
	}

	return stores, nil
}
