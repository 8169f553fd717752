package services

import (
	"context"
	"fmt"
	"store-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCatalog map[domain.StoreKey]domain.Store

func (c mapCatalog) Lookup(key domain.StoreKey) (domain.Store, error) {
	s, ok := c[key]
	if !ok {
		return domain.Store{}, &domain.RequestError{Reason: fmt.Sprintf("%s not found", key), Err: domain.ErrUnknownStore}
	}
	return s, nil
}

func testCatalog() mapCatalog {
	c := mapCatalog{}
	for i, s := range stops {
		key := domain.StoreKey{Brand: "l", Number: i + 1}
		c[key] = domain.Store{Key: key, BrandName: "Linella", Address: s.Label, Location: s.Location}
	}
	key := domain.StoreKey{Brand: "c", Number: 9}
	c[key] = domain.Store{Key: key, BrandName: "Cip"} // never geocoded
	return c
}

func TestPlanStoreRoute_MapsIndicesBackToKeys(t *testing.T) {
	keys := []domain.StoreKey{
		{Brand: "l", Number: 1},
		{Brand: "m", Number: 99},
		{Brand: "l", Number: 2},
		{Brand: "c", Number: 9},
		{Brand: "l", Number: 3},
	}
	o := origin

	res, err := PlanStoreRoute(context.Background(), StoreRouteRequest{Keys: keys, Origin: &o, Mode: domain.ModeFromLocation},
		testCatalog(), newOptimizer(nil))
	require.NoError(t, err)

	// l1, l3, l2 in input positions.
	assert.Equal(t, []int{0, 4, 2}, res.Order)

	require.Len(t, res.Dropped, 2)
	assert.Equal(t, 1, res.Dropped[0].StopIndex)
	assert.Equal(t, "m99 not found", res.Dropped[0].Reason)
	assert.Equal(t, 3, res.Dropped[1].StopIndex)
	assert.Contains(t, res.Dropped[1].Reason, "zero coordinates")

	require.Len(t, res.Itinerary, 4)
	assert.Equal(t, -1, res.Itinerary[0].StopIndex)
	assert.Equal(t, 4, res.Itinerary[2].StopIndex)
	assert.Equal(t, "Linella 3 - c", res.Itinerary[2].Label)
}

func TestPlanStoreRoute_NothingResolves(t *testing.T) {
	_, err := PlanStoreRoute(context.Background(), StoreRouteRequest{
		Keys: []domain.StoreKey{{Brand: "t", Number: 1}},
		Mode: domain.ModeFromFirstStop,
	}, testCatalog(), newOptimizer(nil))
	assert.ErrorIs(t, err, domain.ErrNoUsablePoints)
}

func TestPlanStoreRoute_NoKeys(t *testing.T) {
	_, err := PlanStoreRoute(context.Background(), StoreRouteRequest{Mode: domain.ModeFromFirstStop}, testCatalog(), newOptimizer(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
