package catalog

import (
	"context"
	"fmt"
	"store-route-service/internal/domain"
	"store-route-service/internal/ports"
	"time"

	"github.com/rs/zerolog"
)

// TimeZone is where opening hours are evaluated.
const TimeZone = "Europe/Chisinau"

// Catalog is the immutable in-memory store index, built once at startup.
// Lookups need no locking.
type Catalog struct {
	brands   Brands
	byBrand  map[string]map[int]domain.Store
	ordered  map[string][]domain.Store
	total    int
	location *time.Location
}

// Load reads every brand's stores through repo. Stores whose number falls
// outside the brand range are kept; range checks only apply to lookups by key.
func Load(ctx context.Context, brands Brands, repo ports.StoreRepository, log zerolog.Logger) (*Catalog, error) {
	c := &Catalog{
		brands:  brands,
		byBrand: make(map[string]map[int]domain.Store, len(brands)),
		ordered: make(map[string][]domain.Store, len(brands)),
	}

	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		log.Warn().Err(err).Str("tz", TimeZone).Msg("time zone unavailable, using UTC")
		loc = time.UTC
	}
	c.location = loc

	for _, b := range brands {
		stores, err := repo.ListStores(ctx, b.Code)
		if err != nil {
			return nil, fmt.Errorf("load catalog: brand %s: %w", b.Code, err)
		}
		idx := make(map[int]domain.Store, len(stores))
		for _, s := range stores {
			idx[s.Key.Number] = s
		}
		c.byBrand[b.Code] = idx
		c.ordered[b.Code] = stores
		c.total += len(idx)

		log.Debug().Str("brand", b.Code).Int("stores", len(idx)).Msg("brand loaded")
	}

	log.Info().Int("brands", len(brands)).Int("stores", c.total).Msg("catalog loaded")
	return c, nil
}

// Lookup returns the store for key. Failures wrap domain.ErrUnknownStore.
func (c *Catalog) Lookup(key domain.StoreKey) (domain.Store, error) {
	b, ok := c.brands.Get(key.Brand)
	if !ok {
		return domain.Store{}, &domain.RequestError{
			Reason: fmt.Sprintf("unknown brand %q", key.Brand),
			Err:    domain.ErrUnknownStore,
		}
	}
	if !b.InRange(key.Number) {
		return domain.Store{}, &domain.RequestError{
			Reason: fmt.Sprintf("%s has range %d..%d", b.Name, b.Min, b.Max),
			Err:    domain.ErrUnknownStore,
		}
	}
	s, ok := c.byBrand[b.Code][key.Number]
	if !ok {
		return domain.Store{}, &domain.RequestError{
			Reason: fmt.Sprintf("%s not found", key),
			Err:    domain.ErrUnknownStore,
		}
	}
	return s, nil
}

// Stores returns the brand's stores ordered by number.
func (c *Catalog) Stores(brand string) []domain.Store {
	return c.ordered[brand]
}

func (c *Catalog) Len() int { return c.total }

func (c *Catalog) Brands() Brands { return c.brands }

// Location is the time zone for opening-hours checks.
func (c *Catalog) Location() *time.Location { return c.location }
