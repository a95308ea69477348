// Package geocode resolves alert coordinates to human-readable area names
// so an alert reads "Connaught Place" instead of a bare grid cell. Entirely
// optional: without an API key alerts stay coordinate-only.
package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type Client struct {
	maps *maps.Client
}

// NewClient constructs a reverse-geocoding client from a Maps API key.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key not set")
	}
	mc, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &Client{maps: mc}, nil
}

// ReverseGeocode returns the formatted address of the first result for the
// coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no geocode results for %.4f, %.4f", lat, lng)
	}
	return results[0].FormattedAddress, nil
}
