package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"store-route-service/internal/catalog"
	"store-route-service/internal/domain"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type oneStoreCatalog struct {
	store domain.Store
	loc   *time.Location
}

func (c oneStoreCatalog) Lookup(key domain.StoreKey) (domain.Store, error) {
	if key != c.store.Key {
		return domain.Store{}, &domain.RequestError{Reason: key.String() + " not found", Err: domain.ErrUnknownStore}
	}
	return c.store, nil
}

func (c oneStoreCatalog) Location() *time.Location { return c.loc }

func (c oneStoreCatalog) Page(brand string, n int) (catalog.Page, error) {
	return catalog.Page{}, &domain.RequestError{Reason: "not listed", Err: domain.ErrUnknownStore}
}

func TestStoreOpenNowUsesCatalogTimeZone(t *testing.T) {
	// UTC+3 fixed zone: 05:30 UTC on a Monday is 08:30 local.
	zone := time.FixedZone("local", 3*3600)
	cat := oneStoreCatalog{
		store: domain.Store{
			Key:       domain.StoreKey{Brand: "c", Number: 30},
			BrandName: "Cip",
			Location:  domain.Location{Lat: 47.038, Lon: 28.784},
			Hours:     domain.Hours{"mon": "08:00-22:00"},
		},
		loc: zone,
	}

	cases := []struct {
		now  time.Time
		open bool
	}{
		{time.Date(2024, 3, 4, 5, 30, 0, 0, time.UTC), true},
		{time.Date(2024, 3, 4, 4, 30, 0, 0, time.UTC), false},
		{time.Date(2024, 3, 5, 5, 30, 0, 0, time.UTC), false}, // no Tuesday hours
	}
	for _, tc := range cases {
		h := &StoreHandler{Catalog: cat, Brands: catalog.DefaultBrands(), Now: func() time.Time { return tc.now }}
		r := chi.NewRouter()
		r.Get("/stores/{brand}/{number}", h.Get)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stores/cip/30", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var body struct {
			OpenNow bool `json:"open_now"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.OpenNow != tc.open {
			t.Fatalf("open_now at %v = %v, want %v", tc.now, body.OpenNow, tc.open)
		}
	}
}

func TestStopsText(t *testing.T) {
	got, err := stopsText(json.RawMessage(`"l5 c30"`))
	if err != nil || got != "l5 c30" {
		t.Fatalf("string form = %q, %v", got, err)
	}
	got, err = stopsText(json.RawMessage(`["l5", "fo70"]`))
	if err != nil || got != "l5 fo70" {
		t.Fatalf("array form = %q, %v", got, err)
	}
	for _, raw := range []string{``, `null`, `5`, `{"a":1}`, `[1,2]`} {
		if _, err := stopsText(json.RawMessage(raw)); err == nil {
			t.Fatalf("stopsText(%s): expected error", raw)
		}
	}
}

func TestRequestMode(t *testing.T) {
	cases := []struct {
		text      string
		hasOrigin bool
		want      domain.Mode
	}{
		{"", true, domain.ModeFromLocation},
		{"", false, domain.ModeFromFirstStop},
		{"first", true, domain.ModeFromFirstStop},
		{" LOC ", false, domain.ModeFromLocation},
	}
	for _, tc := range cases {
		got, err := requestMode(tc.text, tc.hasOrigin)
		if err != nil {
			t.Fatalf("requestMode(%q): %v", tc.text, err)
		}
		if got != tc.want {
			t.Fatalf("requestMode(%q, %v) = %q, want %q", tc.text, tc.hasOrigin, got, tc.want)
		}
	}
	if _, err := requestMode("sideways", false); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
