package services

import (
	"math"
	"store-route-service/internal/domain"
	"store-route-service/internal/geo"
)

// DefaultSpeedKmh is the assumed average urban driving speed for geodesic estimates.
const DefaultSpeedKmh = 35.0

// LocalPlanner orders stops from straight-line distances only.
//
// It is the guaranteed fallback when no routing service answers: greedy
// nearest-unvisited from the origin, O(n²) time, no traffic awareness.
type LocalPlanner struct {
	SpeedKmh float64
}

func NewLocalPlanner(speedKmh float64) *LocalPlanner {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	return &LocalPlanner{SpeedKmh: speedKmh}
}

// Plan returns an order over stops (indices into stops) and its estimated duration.
func (p *LocalPlanner) Plan(origin domain.Location, stops []domain.Location) ([]int, int64) {
	visited := make([]bool, len(stops))
	order := make([]int, 0, len(stops))

	current := origin
	km := 0.0

	for len(order) < len(stops) {
		best := -1
		bestKm := math.Inf(1)

		// Strict comparison keeps the lowest index on ties.
		for i, s := range stops {
			if visited[i] {
				continue
			}
			if d := geo.DistanceKm(current, s); d < bestKm {
				best, bestKm = i, d
			}
		}

		visited[best] = true
		order = append(order, best)
		km += bestKm
		current = stops[best]
	}

	return order, geo.TravelSeconds(km, p.SpeedKmh)
}

// LegSeconds estimates a single leg at the planner speed.
func (p *LocalPlanner) LegSeconds(a, b domain.Location) int64 {
	return geo.TravelSeconds(geo.DistanceKm(a, b), p.SpeedKmh)
}
