package listing

import (
	"context"

	"github.com/rethread/backend/internal/domain/geo"
	"github.com/rethread/backend/internal/domain/shared"
)

// ErrLocationNotFound is returned when a location query resolves to nothing
var ErrLocationNotFound = shared.NewDomainError("LOCATION_NOT_FOUND", "Location could not be resolved")

// ErrGeocodingFailed is returned when the geocoding backend fails or
// returns an unusable response
var ErrGeocodingFailed = shared.NewDomainError("GEOCODING_FAILED", "Location service is unavailable")

// GeocodeResult is a resolved location
type GeocodeResult struct {
	Point       geo.Point
	DisplayName string
}

// Geocoder resolves free-text location queries to coordinates.
// Implemented by the infrastructure layer.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*GeocodeResult, error)
}
