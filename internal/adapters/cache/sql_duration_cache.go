package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"store-route-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SQLDurationCache is a Postgres-backed cache of origin->destination cell durations.
// Rows older than TTL are ignored on read and overwritten on write.
type SQLDurationCache struct {
	DB  *sql.DB
	TTL time.Duration
	Log zerolog.Logger
}

func NewSQLDurationCache(db *sql.DB, ttl time.Duration, log zerolog.Logger) *SQLDurationCache {
	return &SQLDurationCache{DB: db, TTL: ttl, Log: log}
}

// Fetch fresh cached durations for one origin cell and multiple destination cells.
func (s *SQLDurationCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]int64, err error) {
	defer obs.Time(ctx, s.Log, "duration.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("duration cache: db is nil")
	}

	if origin == "" {
		return nil, errors.New("get duration cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations, origin)
	if len(uniq) == 0 {
		return map[string]int64{}, nil
	}

	q := `
	SELECT destination, duration_seconds
	FROM duration_cache
	WHERE origin = $1
		AND destination = ANY($2::text[])
		AND fetched_at > $3;
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, uniq, time.Now().Add(-s.TTL))
	if err != nil {
		return nil, fmt.Errorf("get duration cache: query duration_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64, len(uniq))
	for rows.Next() {
		var dest string
		var seconds int64
		if err := rows.Scan(&dest, &seconds); err != nil {
			return nil, fmt.Errorf("get duration cache: scan rows: %w", err)
		}
		out[dest] = seconds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get duration cache: row iteration: %w", err)
	}

	return out, nil
}

// Store durations for a single origin cell.
func (s *SQLDurationCache) PutMany(
	ctx context.Context,
	origin string,
	durations map[string]int64,
) (err error) {
	defer obs.Time(ctx, s.Log, "duration.cache.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("duration cache: db is nil")
	}

	if origin == "" {
		return errors.New("insert duration cache: origin must not be empty")
	}

	if len(durations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert duration cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO duration_cache (origin, destination, duration_seconds, fetched_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (origin, destination) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds,
		fetched_at = EXCLUDED.fetched_at;
	`)
	if err != nil {
		return fmt.Errorf("insert duration cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, seconds := range durations {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert duration cache: empty destination key")
		}

		if _, err := stmt.ExecContext(ctx, origin, dest, seconds); err != nil {
			return fmt.Errorf("insert duration cache dest=%q: %w", dest, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert duration cache commit: %w", err)
	}

	return nil
}

// uniqueKeys trims, de-duplicates and drops blanks and the origin itself.
func uniqueKeys(keys []string, origin string) []string {
	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || k == origin {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
