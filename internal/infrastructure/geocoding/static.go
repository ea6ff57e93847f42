package geocoding

import (
	"context"
	"strings"

	listingapp "github.com/rethread/backend/internal/application/listing"
	"github.com/rethread/backend/internal/domain/geo"
)

// Ensure StaticGeocoder implements Geocoder
var _ listingapp.Geocoder = (*StaticGeocoder)(nil)

type staticEntry struct {
	lat         float64
	lng         float64
	displayName string
}

// builtinCities covers major cities so local development works without
// a Nominatim instance.
var builtinCities = map[string]staticEntry{
	"berlin":     {52.5200, 13.4050, "Berlin, Germany"},
	"hamburg":    {53.5511, 9.9937, "Hamburg, Germany"},
	"munich":     {48.1351, 11.5820, "Munich, Bavaria, Germany"},
	"cologne":    {50.9375, 6.9603, "Cologne, North Rhine-Westphalia, Germany"},
	"frankfurt":  {50.1109, 8.6821, "Frankfurt am Main, Hesse, Germany"},
	"amsterdam":  {52.3676, 4.9041, "Amsterdam, Netherlands"},
	"paris":      {48.8566, 2.3522, "Paris, France"},
	"london":     {51.5074, -0.1278, "London, United Kingdom"},
	"vienna":     {48.2082, 16.3738, "Vienna, Austria"},
	"zurich":     {47.3769, 8.5417, "Zurich, Switzerland"},
	"copenhagen": {55.6761, 12.5683, "Copenhagen, Denmark"},
	"stockholm":  {59.3293, 18.0686, "Stockholm, Sweden"},
	"warsaw":     {52.2297, 21.0122, "Warsaw, Poland"},
	"prague":     {50.0755, 14.4378, "Prague, Czechia"},
	"madrid":     {40.4168, -3.7038, "Madrid, Spain"},
	"barcelona":  {41.3874, 2.1686, "Barcelona, Spain"},
	"rome":       {41.9028, 12.4964, "Rome, Italy"},
	"milan":      {45.4642, 9.1900, "Milan, Italy"},
	"lisbon":     {38.7223, -9.1393, "Lisbon, Portugal"},
	"new york":   {40.7128, -74.0060, "New York, United States"},
}

// StaticGeocoder resolves locations from a built-in city table.
// Intended for development and tests.
type StaticGeocoder struct {
	cities map[string]staticEntry
}

// NewStaticGeocoder creates a geocoder backed by the built-in city table
func NewStaticGeocoder() *StaticGeocoder {
	return &StaticGeocoder{cities: builtinCities}
}

// Geocode looks the query up in the city table. Matching is
// case-insensitive and ignores anything after the first comma, so
// "Berlin, Germany" resolves the same as "berlin". Queries that merely
// contain a known city name also match, longest city name winning.
func (g *StaticGeocoder) Geocode(_ context.Context, query string) (*listingapp.GeocodeResult, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if idx := strings.Index(key, ","); idx >= 0 {
		key = strings.TrimSpace(key[:idx])
	}

	entry, ok := g.cities[key]
	if !ok {
		entry, ok = g.matchSubstring(key)
	}
	if !ok {
		return nil, listingapp.ErrLocationNotFound
	}

	point, err := geo.NewPoint(entry.lat, entry.lng)
	if err != nil {
		return nil, err
	}

	return &listingapp.GeocodeResult{
		Point:       point,
		DisplayName: entry.displayName,
	}, nil
}

// matchSubstring scans for a city name contained in the query. The longest
// name wins so iteration order cannot change the result.
func (g *StaticGeocoder) matchSubstring(query string) (staticEntry, bool) {
	var (
		best    staticEntry
		bestLen int
		found   bool
	)
	for name, entry := range g.cities {
		if strings.Contains(query, name) && len(name) > bestLen {
			best = entry
			bestLen = len(name)
			found = true
		}
	}
	return best, found
}
