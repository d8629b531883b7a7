package domain

import (
	"context"
	"log/slog"
	"strings"
)

// EnrichWithGeocoding fills in coordinates for a record that has none. It runs
// at load time, before the snapshot is frozen, and only ever touches Lat/Lng.
// A nil geocoder, a lookup error, or an empty result leaves the record
// non-geolocatable (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, rec Record, geocoder Geocoder, logger *slog.Logger) Record {
	if geocoder == nil || rec.Geolocatable() {
		return rec
	}

	query := geocodeQuery(rec)
	if query == "" {
		return rec
	}

	result, err := geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"name", rec.Name,
			"query", query,
			"error", err,
		)
		return rec
	}
	if !result.Found() {
		return rec
	}

	rec.Lat = result.Lat
	rec.Lng = result.Lon
	if rec.Address == "" {
		rec.Address = result.FormattedAddress
	}
	return rec
}

// geocodeQuery joins the known location parts; "Unknown" placeholders are skipped.
// Returns "" when neither city nor country is known, since a bare name is too ambiguous.
func geocodeQuery(rec Record) string {
	var parts []string
	for _, p := range []string{rec.City, rec.Country} {
		if p != "" && p != Unknown {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append([]string{rec.Name}, parts...), ", ")
}
