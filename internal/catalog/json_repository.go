package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"store-route-service/internal/domain"

	"github.com/rs/zerolog"
)

// JSONRepository reads per-brand dataset files from a directory.
type JSONRepository struct {
	Dir    string
	Brands Brands
	Log    zerolog.Logger
}

func NewJSONRepository(dir string, brands Brands, log zerolog.Logger) *JSONRepository {
	return &JSONRepository{Dir: dir, Brands: brands, Log: log}
}

// ListStores returns the brand's stores ordered by number.
// A missing dataset file yields an empty list, not an error.
func (r *JSONRepository) ListStores(ctx context.Context, brand string) ([]domain.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, ok := r.Brands.Get(brand)
	if !ok {
		return nil, fmt.Errorf("list stores: unknown brand %q", brand)
	}

	path := filepath.Join(r.Dir, b.File)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.Log.Warn().Str("brand", b.Code).Str("path", path).Msg("dataset file missing, brand has no stores")
		return []domain.Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list stores: read %q: %w", path, err)
	}

	stores, err := decodeStores(data, b)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].Key.Number < stores[j].Key.Number })
	return stores, nil
}
