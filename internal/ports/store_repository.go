package ports

import (
	"context"
	"store-route-service/internal/domain"
)

// Port: a boundary for loading catalogued stores from a data source.
type StoreRepository interface {
	// Retrieve every store for the given brand code.
	ListStores(ctx context.Context, brand string) ([]domain.Store, error)
}

// Port: read-only lookup into the catalog loaded at startup.
type StoreCatalog interface {
	// Return the store for key, or an error wrapping domain.ErrUnknownStore.
	Lookup(key domain.StoreKey) (domain.Store, error)
}
