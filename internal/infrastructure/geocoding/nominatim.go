// Package geocoding resolves location names to coordinates.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	listingapp "github.com/rethread/backend/internal/application/listing"
	"github.com/rethread/backend/internal/domain/geo"
	infraconfig "github.com/rethread/backend/internal/infrastructure/config"
)

const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// Ensure NominatimGeocoder implements Geocoder
var _ listingapp.Geocoder = (*NominatimGeocoder)(nil)

// NominatimGeocoder resolves locations against a Nominatim instance.
// Nominatim's usage policy requires a descriptive User-Agent.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a geocoder from configuration
func NewNominatimGeocoder(cfg *infraconfig.GeocodingConfig) *NominatimGeocoder {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text query to coordinates
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (*listingapp.GeocodeResult, error) {
	if query == "" {
		return nil, listingapp.ErrLocationNotFound
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocoding: failed to build request: %v: %w", err, listingapp.ErrGeocodingFailed)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding: request failed: %v: %w", err, listingapp.ErrGeocodingFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding: unexpected status %d: %w", resp.StatusCode, listingapp.ErrGeocodingFailed)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geocoding: failed to read response: %v: %w", err, listingapp.ErrGeocodingFailed)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("geocoding: failed to parse response: %v: %w", err, listingapp.ErrGeocodingFailed)
	}
	if len(results) == 0 {
		return nil, listingapp.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding: invalid latitude %q: %w", results[0].Lat, listingapp.ErrGeocodingFailed)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding: invalid longitude %q: %w", results[0].Lon, listingapp.ErrGeocodingFailed)
	}

	point, err := geo.NewPoint(lat, lon)
	if err != nil {
		return nil, err
	}

	return &listingapp.GeocodeResult{
		Point:       point,
		DisplayName: results[0].DisplayName,
	}, nil
}
