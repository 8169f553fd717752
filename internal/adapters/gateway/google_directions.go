package gateway

import (
	"context"
	"fmt"
	"net/url"
	"store-route-service/internal/domain"
	"strings"
)

type durationValue struct {
	Value *int64 `json:"value"`
}

type directionsLeg struct {
	Duration          *durationValue `json:"duration"`
	DurationInTraffic *durationValue `json:"duration_in_traffic"`
}

type directionsRoute struct {
	WaypointOrder []int           `json:"waypoint_order"`
	Legs          []directionsLeg `json:"legs"`
}

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []directionsRoute `json:"routes"`
}

// seconds prefers the traffic-adjusted duration and falls back to the static one.
func seconds(inTraffic, static *durationValue) (int64, bool) {
	if inTraffic != nil && inTraffic.Value != nil && *inTraffic.Value >= 0 {
		return *inTraffic.Value, true
	}
	if static != nil && static.Value != nil && *static.Value >= 0 {
		return *static.Value, true
	}
	return 0, false
}

// fetchDirections asks Google to reorder the intermediate stops in one call.
//
// The last stop is the fixed destination and every earlier stop is an optimisable
// waypoint. The returned order indexes stops: waypoint_order followed by the last stop.
func (g *GoogleGateway) fetchDirections(ctx context.Context, origin domain.Location, stops []domain.Location) ([]int, int64, error) {
	waypoints := stops[:len(stops)-1]
	if len(waypoints) > maxDirectionsWaypoints {
		return nil, 0, fmt.Errorf("%w: %d waypoints, limit %d", ErrTooManyPoints, len(waypoints), maxDirectionsWaypoints)
	}

	params := url.Values{}
	params.Set("origin", origin.String())
	params.Set("destination", stops[len(stops)-1].String())
	params.Set("mode", "driving")
	params.Set("departure_time", "now")
	if len(waypoints) > 0 {
		parts := make([]string, 0, len(waypoints)+1)
		parts = append(parts, "optimize:true")
		for _, w := range waypoints {
			parts = append(parts, w.String())
		}
		params.Set("waypoints", strings.Join(parts, "|"))
	}

	var (
		order []int
		total int64
	)
	err := g.withRetry(ctx, "directions", func(ctx context.Context) error {
		var dr directionsResponse
		if err := g.getJSON(ctx, "/maps/api/directions/json", params, &dr); err != nil {
			return err
		}

		var err error
		order, total, err = parseDirections(dr, len(waypoints))
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return order, total, nil
}

func parseDirections(dr directionsResponse, waypoints int) ([]int, int64, error) {
	if dr.Status != "OK" {
		return nil, 0, &apiStatusError{Status: dr.Status, Message: dr.ErrorMessage}
	}
	if len(dr.Routes) == 0 {
		return nil, 0, fmt.Errorf("response has no routes")
	}
	route := dr.Routes[0]

	if len(route.WaypointOrder) != waypoints {
		return nil, 0, fmt.Errorf("waypoint_order has %d entries, want %d", len(route.WaypointOrder), waypoints)
	}
	seen := make([]bool, waypoints)
	for _, i := range route.WaypointOrder {
		if i < 0 || i >= waypoints || seen[i] {
			return nil, 0, fmt.Errorf("waypoint_order %v is not a permutation", route.WaypointOrder)
		}
		seen[i] = true
	}

	if len(route.Legs) != waypoints+1 {
		return nil, 0, fmt.Errorf("route has %d legs, want %d", len(route.Legs), waypoints+1)
	}

	var total int64
	for i, leg := range route.Legs {
		s, ok := seconds(leg.DurationInTraffic, leg.Duration)
		if !ok {
			return nil, 0, fmt.Errorf("leg %d has no duration", i)
		}
		total += s
	}

	order := make([]int, 0, waypoints+1)
	order = append(order, route.WaypointOrder...)
	order = append(order, waypoints)

	return order, total, nil
}
