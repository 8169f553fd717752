package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"store-route-service/internal/api/dto"
	"store-route-service/internal/catalog"
	"store-route-service/internal/domain"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/services"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo map[string][]domain.Store

func (r memoryRepo) ListStores(_ context.Context, brand string) ([]domain.Store, error) {
	return r[brand], nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	allDay := domain.Hours{}
	for _, d := range domain.DayKeys {
		allDay[d] = "00:00-23:59"
	}
	store := func(brand, name string, n int, lat, lon float64) domain.Store {
		k := domain.StoreKey{Brand: brand, Number: n}
		return domain.Store{
			Key:       k,
			BrandName: name,
			Address:   "addr " + k.String(),
			Location:  domain.Location{Lat: lat, Lon: lon},
			Hours:     allDay,
		}
	}

	repo := memoryRepo{
		"l": {
			store("l", "Linella", 5, 47.0105, 28.8638),
			store("l", "Linella", 12, 47.0001, 28.8530),
			store("l", "Linella", 40, 0, 0),
		},
		"c": {store("c", "Cip", 30, 47.0380, 28.7840)},
	}
	c, err := catalog.Load(context.Background(), catalog.DefaultBrands(), repo, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	opt := services.NewRouteOptimizer(services.OptimizerConfig{Logger: zerolog.Nop()})
	return NewRouter(RouterConfig{
		Catalog:   testCatalog(t),
		Brands:    catalog.DefaultBrands(),
		Optimizer: opt,
		Logger:    zerolog.Nop(),
		Metrics:   metrics.New(),
		RateLimit: rateLimit,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Request-Id"), "req_"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter(t, 0).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, 0)
	do(t, h, http.MethodGet, "/health", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/routes", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetStore(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := do(t, h, http.MethodGet, "/stores/lin/5?lat=47.0&lon=28.85", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.StoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "l5", res.Code)
	assert.Equal(t, "Linella 5 - addr l5", res.Title)
	assert.True(t, res.OpenNow)
	require.NotNil(t, res.DistanceKm)
	assert.InDelta(t, 1.6, *res.DistanceKm, 0.5)
}

func TestGetStoreErrors(t *testing.T) {
	h := newTestRouter(t, 0)

	cases := map[string]int{
		"/stores/l/abc":                 http.StatusBadRequest,
		"/stores/l/5?lat=x&lon=1":       http.StatusBadRequest,
		"/stores/l/5?lat=0&lon=0":       http.StatusBadRequest,
		"/stores/m/9":                   http.StatusNotFound,
		"/stores/l/5?lat=47.0&lon=28.8": http.StatusOK,
	}
	for target, want := range cases {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, want, rec.Code, target)
	}
}

func TestPlanRouteFromLocation(t *testing.T) {
	body := `{"stops": "l5 c30, l40 m9 hello", "origin": {"lat": 47.02, "lon": 28.83}}`
	rec := do(t, newTestRouter(t, 0), http.MethodPost, "/routes", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "from-location", res.Mode)
	assert.Equal(t, "local", res.Source)
	assert.False(t, res.Degraded)
	assert.Greater(t, res.TotalSeconds, int64(0))
	assert.Equal(t, []string{"hello"}, res.Ignored)

	require.Len(t, res.Itinerary, 3)
	assert.Nil(t, res.Itinerary[0].Index)
	assert.Equal(t, "Start", res.Itinerary[0].Label)

	codes := []string{res.Itinerary[1].Code, res.Itinerary[2].Code}
	assert.ElementsMatch(t, []string{"l5", "c30"}, codes)

	require.Len(t, res.Dropped, 2)
	assert.Equal(t, 2, res.Dropped[0].Index)
	assert.Equal(t, "l40", res.Dropped[0].Code)
	assert.Equal(t, 3, res.Dropped[1].Index)
	assert.Equal(t, "m9 not found", res.Dropped[1].Reason)
}

func TestPlanRouteFromFirstStop(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodPost, "/routes", `{"stops": ["c30", "l5", "l12"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "from-first-stop", res.Mode)
	require.Len(t, res.Itinerary, 3)
	require.NotNil(t, res.Itinerary[0].Index)
	assert.Equal(t, 0, *res.Itinerary[0].Index)
	assert.Equal(t, "c30", res.Itinerary[0].Code)
	assert.Empty(t, res.Dropped)
}

func TestPlanRouteRejectsBadInput(t *testing.T) {
	h := newTestRouter(t, 0)

	cases := map[string]int{
		`not json`:                                        http.StatusBadRequest,
		`{"stops": 5}`:                                    http.StatusBadRequest,
		`{}`:                                              http.StatusBadRequest,
		`{"stops": "hello world"}`:                        http.StatusBadRequest,
		`{"stops": "l5", "extra": 1}`:                     http.StatusBadRequest,
		`{"stops": "l5 c30", "mode": "sideways"}`:         http.StatusBadRequest,
		`{"stops": "l5 c30", "mode": "from-location"}`:    http.StatusBadRequest,
		`{"stops": "l5", "origin": {"lat": 0, "lon": 0}}`: http.StatusBadRequest,
		`{"stops": "m9 l40"}`:                             http.StatusUnprocessableEntity,
	}
	for body, want := range cases {
		rec := do(t, h, http.MethodPost, "/routes", body)
		assert.Equal(t, want, rec.Code, body)
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, 1)

	first := do(t, h, http.MethodGet, "/stores/l/5", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := do(t, h, http.MethodGet, "/stores/l/5", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health is outside the limited group.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestListStoresPage(t *testing.T) {
	h := newTestRouter(t, 0)

	rec := do(t, h, http.MethodGet, "/stores/linella", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.StorePageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "l", res.Code)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 2, res.Pages)
	assert.Nil(t, res.PrevPage)
	require.NotNil(t, res.NextPage)
	assert.Equal(t, 2, *res.NextPage)
	require.Len(t, res.Stores, 2)
	assert.Equal(t, "l5", res.Stores[0].Code)
	assert.Equal(t, "l12", res.Stores[1].Code)

	rec = do(t, h, http.MethodGet, "/stores/l?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = dto.StorePageResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 21, res.From)
	assert.Equal(t, 40, res.To)
	require.Len(t, res.Stores, 1)
	assert.Equal(t, "l40", res.Stores[0].Code)
	assert.Nil(t, res.NextPage)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/stores/l?page=0", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/stores/zz", "").Code)
}
