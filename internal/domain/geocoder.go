package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Found reports whether the provider returned a position.
func (r GeocodingResult) Found() bool {
	return r.Lat != 0 || r.Lon != 0
}

// Geocoder resolves free-text places to coordinates.
type Geocoder interface {
	// ForwardGeocode converts a place query such as "Name, City, Country" to coordinates.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
