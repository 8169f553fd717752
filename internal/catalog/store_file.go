package catalog

import (
	"encoding/json"
	"fmt"
	"store-route-service/internal/domain"
	"strconv"
	"strings"
)

// storeRecord is one entry of a "<brand>_for_bot.json" dataset file, keyed by store number.
type storeRecord struct {
	Address string            `json:"address"`
	Lat     coord             `json:"lat"`
	Lon     coord             `json:"lon"`
	Hours   map[string]string `json:"hours"`
}

// coord accepts a number, a numeric string, an empty string or null.
type coord float64

func (c *coord) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*c = 0
		return nil
	}
	*c = coord(f)
	return nil
}

// decodeStores parses a dataset file. Coordinates that are missing or unparseable
// become 0 so the store still resolves but is dropped from routes.
func decodeStores(data []byte, brand Brand) ([]domain.Store, error) {
	var raw map[string]storeRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", brand.File, err)
	}

	out := make([]domain.Store, 0, len(raw))
	for k, rec := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		out = append(out, domain.Store{
			Key:       domain.StoreKey{Brand: brand.Code, Number: n},
			BrandName: brand.Name,
			Address:   strings.TrimSpace(rec.Address),
			Location:  domain.Location{Lat: float64(rec.Lat), Lon: float64(rec.Lon)},
			Hours:     domain.Hours(rec.Hours),
		})
	}
	return out, nil
}
