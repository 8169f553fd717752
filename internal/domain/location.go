package domain

import (
	"fmt"
	"math"
)

// Immutable geographic point in signed decimal degrees.
//
// The catalog ingestion pipeline writes 0 for coordinates it could not geocode,
// so (0,0) is treated as "absent" rather than as a real point in the Gulf of Guinea.
type Location struct {
	Lat float64
	Lon float64
}

// IsZero reports whether the location is the (0,0) "absent" marker.
func (l Location) IsZero() bool { return l.Lat == 0 && l.Lon == 0 }

// Validate rejects non-finite, out-of-range and absent coordinates.
func (l Location) Validate() error {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || math.IsNaN(l.Lon) || math.IsInf(l.Lon, 0) {
		return fmt.Errorf("%w: non-finite coordinate (%v, %v)", ErrInvalidLocation, l.Lat, l.Lon)
	}
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidLocation, l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidLocation, l.Lon)
	}
	if l.IsZero() {
		return fmt.Errorf("%w: zero coordinates", ErrInvalidLocation)
	}
	return nil
}

// String formats the location as "lat,lon" with 6 decimals, the form mapping APIs expect.
func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lon)
}
