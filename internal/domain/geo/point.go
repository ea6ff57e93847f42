// Package geo provides geographic value objects used by listing search.
package geo

import (
	"math"

	"github.com/rethread/backend/internal/domain/shared"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewPoint creates a validated geographic point.
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{Latitude: lat, Longitude: lng}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks that the point is within valid coordinate ranges.
func (p Point) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return shared.NewDomainError("INVALID_COORDINATES", "Latitude must be between -90 and 90")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return shared.NewDomainError("INVALID_COORDINATES", "Longitude must be between -180 and 180")
	}
	return nil
}

// IsZero reports whether the point is the zero value (0, 0).
// The null island coordinate is treated as "no location set".
func (p Point) IsZero() bool {
	return p.Latitude == 0 && p.Longitude == 0
}

// DistanceKm returns the great-circle distance to other in kilometers,
// computed with the Haversine formula.
func (p Point) DistanceKm(other Point) float64 {
	lat1 := degToRad(p.Latitude)
	lat2 := degToRad(other.Latitude)
	dLat := degToRad(other.Latitude - p.Latitude)
	dLng := degToRad(other.Longitude - p.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// LongitudeDeltaDeg returns how many degrees of longitude span the given
// distance at the given latitude. Returns 180 near the poles, where a
// meridian circle degenerates.
func LongitudeDeltaDeg(latitude, distanceKm float64) float64 {
	cosLat := math.Cos(degToRad(latitude))
	if cosLat < 1e-9 {
		return 180
	}
	return distanceKm / (111.0 * cosLat)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
