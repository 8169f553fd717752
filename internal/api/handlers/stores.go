package handlers

import (
	"net/http"
	"store-route-service/internal/api/dto"
	"store-route-service/internal/catalog"
	"store-route-service/internal/domain"
	"store-route-service/internal/geo"
	"store-route-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// StoreCatalog is the read side of *catalog.Catalog the handlers need.
type StoreCatalog interface {
	ports.StoreCatalog
	Location() *time.Location
	Page(brand string, n int) (catalog.Page, error)
}

type StoreHandler struct {
	Catalog StoreCatalog
	Brands  catalog.Brands
	Now     func() time.Time
}

// Get serves GET /stores/{brand}/{number}?lat=&lon=.
// With both lat and lon the response includes the distance from that point.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")
	if code, ok := h.Brands.Normalize(brand); ok {
		brand = code
	}
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		writeError(w, r, http.StatusBadRequest, "store number must be a positive integer")
		return
	}

	var from *domain.Location
	q := r.URL.Query()
	if q.Has("lat") || q.Has("lon") {
		loc, err := parseLatLon(q.Get("lat"), q.Get("lon"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		from = &loc
	}

	store, err := h.Catalog.Lookup(domain.StoreKey{Brand: strings.ToLower(brand), Number: number})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	now := h.Now().In(h.Catalog.Location())
	res := dto.StoreResponse{
		Code:       store.Key.String(),
		Brand:      store.BrandName,
		Number:     store.Key.Number,
		Title:      store.Title(),
		Address:    store.Address,
		Lat:        store.Location.Lat,
		Lon:        store.Location.Lon,
		Hours:      store.Hours,
		HoursToday: store.Hours.For(now.Weekday()),
		OpenNow:    store.OpenAt(now, h.Catalog.Location()),
	}
	if from != nil && !store.Location.IsZero() {
		km := geo.DistanceKm(*from, store.Location)
		res.DistanceKm = &km
	}

	writeJSON(w, r, http.StatusOK, res)
}

// List serves GET /stores/{brand}?page=, one window of catalog.PerPage numbers.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	brand := strings.ToLower(chi.URLParam(r, "brand"))
	if code, ok := h.Brands.Normalize(brand); ok {
		brand = code
	}

	n := 1
	if text := r.URL.Query().Get("page"); text != "" {
		v, err := strconv.Atoi(text)
		if err != nil || v < 1 {
			writeError(w, r, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		n = v
	}

	page, err := h.Catalog.Page(brand, n)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.StorePageResponse{
		Brand:  page.Brand.Name,
		Code:   page.Brand.Code,
		Page:   page.Number,
		Pages:  page.Pages,
		From:   page.From,
		To:     page.To,
		Stores: make([]dto.StoreSummary, 0, len(page.Stores)),
	}
	if page.HasPrev() {
		prev := page.Number - 1
		res.PrevPage = &prev
	}
	if page.HasNext() {
		next := page.Number + 1
		res.NextPage = &next
	}
	for _, s := range page.Stores {
		res.Stores = append(res.Stores, dto.StoreSummary{
			Code:   s.Key.String(),
			Number: s.Key.Number,
			Title:  s.Title(),
			Lat:    s.Location.Lat,
			Lon:    s.Location.Lon,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseLatLon(latText, lonText string) (domain.Location, error) {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if errLat != nil || errLon != nil {
		return domain.Location{}, &domain.RequestError{Reason: "lat and lon must both be numbers", Err: domain.ErrInvalidLocation}
	}
	loc := domain.Location{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return domain.Location{}, err
	}
	return loc, nil
}
