package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"store-route-service/internal/domain"
	"store-route-service/internal/ports"
)

// Optimizer is satisfied by *RouteOptimizer.
type Optimizer interface {
	Optimize(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error)
}

type StoreRouteRequest struct {
	Keys   []domain.StoreKey
	Origin *domain.Location
	Mode   domain.Mode
}

// PlanStoreRoute resolves catalog keys into stops and plans a route through them.
//
// Indices in the result (Order, Dropped, Itinerary) refer to req.Keys. Keys the
// catalog cannot resolve are reported in Dropped instead of failing the request.
func PlanStoreRoute(
	ctx context.Context,
	req StoreRouteRequest,
	catalog ports.StoreCatalog,
	optimizer Optimizer,
) (domain.RouteResult, error) {
	if len(req.Keys) == 0 {
		return domain.RouteResult{}, fmt.Errorf("plan store route: %w", &domain.RequestError{
			Reason: "no store codes given",
			Err:    domain.ErrInvalidRequest,
		})
	}

	var (
		stops    []domain.Stop
		keyIndex []int
		dropped  []domain.DroppedStop
	)
	for i, key := range req.Keys {
		store, err := catalog.Lookup(key)
		if err != nil {
			dropped = append(dropped, domain.DroppedStop{StopIndex: i, Label: key.String(), Reason: reason(err)})
			continue
		}
		stops = append(stops, store.Stop())
		keyIndex = append(keyIndex, i)
	}

	if len(stops) == 0 {
		return domain.RouteResult{Dropped: dropped}, fmt.Errorf("plan store route: %w", &domain.RequestError{
			Reason: fmt.Sprintf("none of the %d store codes could be resolved", len(req.Keys)),
			Err:    domain.ErrNoUsablePoints,
		})
	}

	res, err := optimizer.Optimize(ctx, domain.RouteRequest{Origin: req.Origin, Stops: stops, Mode: req.Mode})
	if err != nil {
		return domain.RouteResult{Dropped: dropped}, fmt.Errorf("plan store route: %w", err)
	}

	for i := range res.Order {
		res.Order[i] = keyIndex[res.Order[i]]
	}
	for i := range res.Itinerary {
		if idx := res.Itinerary[i].StopIndex; idx >= 0 {
			res.Itinerary[i].StopIndex = keyIndex[idx]
		}
	}
	for _, d := range res.Dropped {
		d.StopIndex = keyIndex[d.StopIndex]
		dropped = append(dropped, d)
	}

	slices.SortFunc(dropped, func(a, b domain.DroppedStop) int { return a.StopIndex - b.StopIndex })
	res.Dropped = dropped

	return res, nil
}

func reason(err error) string {
	var re *domain.RequestError
	if errors.As(err, &re) {
		return re.Reason
	}
	return err.Error()
}
