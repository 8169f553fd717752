// Package geo holds pure great-circle helpers shared by the local planner and the API.
package geo

import (
	"math"
	"store-route-service/internal/domain"
)

// EarthRadiusKm is the IUGG mean Earth radius.
const EarthRadiusKm = 6371.0088

// DistanceKm returns the haversine distance between a and b in kilometres.
func DistanceKm(a, b domain.Location) float64 {
	p1 := radians(a.Lat)
	p2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lon - a.Lon)

	sp := math.Sin(dPhi / 2)
	sl := math.Sin(dLambda / 2)
	x := sp*sp + math.Cos(p1)*math.Cos(p2)*sl*sl

	// Rounding can push x just outside [0,1] for antipodal or identical points.
	x = math.Max(0, math.Min(1, x))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(x), math.Sqrt(1-x))
}

// TravelSeconds converts a distance to whole seconds at a constant speed.
func TravelSeconds(km, speedKmh float64) int64 {
	if speedKmh <= 0 || km <= 0 {
		return 0
	}
	return int64(math.Round(km / speedKmh * 3600))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
