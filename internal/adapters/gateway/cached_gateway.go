package gateway

import (
	"context"
	"store-route-service/internal/domain"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/ports"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/rs/zerolog"
)

const (
	// geohashPrecision 9 is a cell of roughly 5m, well under the size of a store car park.
	geohashPrecision = 9

	cacheWriteTimeout = 2 * time.Second
)

// CachedGateway serves duration matrices from a DurationCache and falls back to
// the wrapped gateway on any miss. It always answers in matrix form.
type CachedGateway struct {
	inner   ports.MatrixGateway
	cache   ports.DurationCache
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewCachedGateway(inner ports.MatrixGateway, cache ports.DurationCache, log zerolog.Logger, m *metrics.Metrics) *CachedGateway {
	return &CachedGateway{inner: inner, cache: cache, log: log, metrics: m}
}

// Fetch implements ports.TravelTimeGateway.
func (c *CachedGateway) Fetch(ctx context.Context, origin domain.Location, stops []domain.Location) ports.GatewayOutcome {
	return c.FetchMatrix(ctx, append([]domain.Location{origin}, stops...))
}

func (c *CachedGateway) FetchMatrix(ctx context.Context, points []domain.Location) ports.GatewayOutcome {
	cells := make([]string, len(points))
	for i, p := range points {
		cells[i] = cellKey(p)
	}

	if m, ok := c.lookup(ctx, cells); ok {
		c.metrics.ObserveCacheLookup(true)
		return ports.Matrix(m)
	}
	c.metrics.ObserveCacheLookup(false)

	out := c.inner.FetchMatrix(ctx, points)
	if out.Kind == ports.OutcomeMatrix {
		c.store(ctx, cells, out.Matrix)
	}
	return out
}

// lookup succeeds only when every off-diagonal pair is cached.
func (c *CachedGateway) lookup(ctx context.Context, cells []string) (domain.DurationMatrix, bool) {
	n := len(cells)
	m := domain.NewDurationMatrix(n)

	for i := 0; i < n; i++ {
		hits, err := c.cache.GetMany(ctx, cells[i], cells)
		if err != nil {
			c.log.Warn().Err(err).Msg("duration cache read failed")
			return nil, false
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if cells[i] == cells[j] {
				m[i][j] = 0
				continue
			}
			s, ok := hits[cells[j]]
			if !ok {
				return nil, false
			}
			m[i][j] = s
		}
	}
	return m, true
}

// store writes every priced cell. Failures are logged and otherwise ignored.
func (c *CachedGateway) store(ctx context.Context, cells []string, m domain.DurationMatrix) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()

	for i, row := range m {
		durations := make(map[string]int64, len(row))
		for j, s := range row {
			if i == j || s >= domain.Unreachable || cells[i] == cells[j] {
				continue
			}
			durations[cells[j]] = s
		}
		if len(durations) == 0 {
			continue
		}
		if err := c.cache.PutMany(ctx, cells[i], durations); err != nil {
			c.log.Warn().Err(err).Str("origin_cell", cells[i]).Msg("duration cache write failed")
			return
		}
	}
}

func cellKey(l domain.Location) string {
	return geohash.EncodeWithPrecision(l.Lat, l.Lon, geohashPrecision)
}
