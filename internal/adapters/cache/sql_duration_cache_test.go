package cache

import (
	"context"
	"database/sql"
	"os"
	"store-route-service/internal/adapters/repositories"
	"store-route-service/internal/platform/db"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to DATABASE_URL and prepares the schema, or skips.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping Postgres integration test")
	}

	ctx := context.Background()
	pg, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	require.NoError(t, repositories.InitSchema(ctx, pg))
	return pg
}

// testOrigin returns an origin key unique to this run and removes its rows afterwards.
func testOrigin(t *testing.T, pg *sql.DB) string {
	t.Helper()
	origin := "test-" + t.Name() + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	t.Cleanup(func() {
		_, _ = pg.ExecContext(context.Background(), `DELETE FROM duration_cache WHERE origin = $1`, origin)
	})
	return origin
}

func TestSQLDurationCache_RoundTripAndUpsert(t *testing.T) {
	pg := openTestDB(t)
	origin := testOrigin(t, pg)
	c := NewSQLDurationCache(pg, time.Minute, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, origin, map[string]int64{"b": 120, "c": 300}))
	got, err := c.GetMany(ctx, origin, []string{"b", "c", "missing", origin})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"b": 120, "c": 300}, got)

	require.NoError(t, c.PutMany(ctx, origin, map[string]int64{"b": 90}))
	got, err = c.GetMany(ctx, origin, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, int64(90), got["b"], "second write replaces the first")
}

func TestSQLDurationCache_IgnoresStaleRows(t *testing.T) {
	pg := openTestDB(t)
	origin := testOrigin(t, pg)
	c := NewSQLDurationCache(pg, 2*time.Minute, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, origin, map[string]int64{"old": 60, "fresh": 70}))
	_, err := pg.ExecContext(ctx,
		`UPDATE duration_cache SET fetched_at = NOW() - INTERVAL '10 minutes' WHERE origin = $1 AND destination = 'old'`,
		origin)
	require.NoError(t, err)

	got, err := c.GetMany(ctx, origin, []string{"old", "fresh"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"fresh": 70}, got)

	require.NoError(t, c.PutMany(ctx, origin, map[string]int64{"old": 65}))
	got, err = c.GetMany(ctx, origin, []string{"old"})
	require.NoError(t, err)
	assert.Equal(t, int64(65), got["old"], "rewrite refreshes fetched_at")
}

func TestSQLDurationCache_Validation(t *testing.T) {
	pg := openTestDB(t)
	c := NewSQLDurationCache(pg, time.Minute, zerolog.Nop())
	ctx := context.Background()

	_, err := c.GetMany(ctx, "", []string{"b"})
	require.Error(t, err)
	require.Error(t, c.PutMany(ctx, "a", map[string]int64{" ": 1}))

	got, err := c.GetMany(ctx, "a", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
