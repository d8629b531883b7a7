// Package spatial prepares filtered restaurants for a map clustering consumer:
// a validated point list plus its bounding box. Clustering itself is left to
// the consumer.
package spatial

import (
	"math"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Point is a geolocated record ready to become a map marker.
type Point struct {
	Record domain.Record
	Lat    float64
	Lng    float64
}

// ClusterKey is the attribute markers are coloured and grouped by.
func (p Point) ClusterKey() int { return p.Record.Stars }

// Bounds is a lat/lng bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Pad grows the box by ratio of its height and width on every side, clamped
// to valid coordinates. A non-positive ratio returns the box unchanged.
func (b Bounds) Pad(ratio float64) Bounds {
	if !(ratio > 0) {
		return b
	}
	dLat := (b.MaxLat - b.MinLat) * ratio
	dLng := (b.MaxLng - b.MinLng) * ratio
	return Bounds{
		MinLat: math.Max(b.MinLat-dLat, -90),
		MaxLat: math.Min(b.MaxLat+dLat, 90),
		MinLng: math.Max(b.MinLng-dLng, -180),
		MaxLng: math.Min(b.MaxLng+dLng, 180),
	}
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// PointFeed is the marker input for one map render. Bounds is nil when there are no points.
type PointFeed struct {
	Points []Point
	Bounds *Bounds
}

// BuildPointFeed keeps the records with finite, in-range coordinates, in input
// order, and computes their tight bounding box. Other records are skipped
// silently; they remain in the caller's record set.
func BuildPointFeed(records []domain.Record) PointFeed {
	feed := PointFeed{Points: make([]Point, 0, len(records))}
	for _, r := range records {
		if !ValidCoordinate(r.Lat, r.Lng) {
			continue
		}
		feed.Points = append(feed.Points, Point{Record: r, Lat: r.Lat, Lng: r.Lng})
		feed.extend(r.Lat, r.Lng)
	}
	return feed
}

func (f *PointFeed) extend(lat, lng float64) {
	if f.Bounds == nil {
		f.Bounds = &Bounds{MinLat: lat, MaxLat: lat, MinLng: lng, MaxLng: lng}
		return
	}
	f.Bounds.MinLat = math.Min(f.Bounds.MinLat, lat)
	f.Bounds.MaxLat = math.Max(f.Bounds.MaxLat, lat)
	f.Bounds.MinLng = math.Min(f.Bounds.MinLng, lng)
	f.Bounds.MaxLng = math.Max(f.Bounds.MaxLng, lng)
}

// PaddedBounds returns the feed's bounds grown by ratio, or nil when there are no points.
func (f PointFeed) PaddedBounds(ratio float64) *Bounds {
	if f.Bounds == nil {
		return nil
	}
	b := f.Bounds.Pad(ratio)
	return &b
}

// CountByClusterKey tallies points per cluster key.
func (f PointFeed) CountByClusterKey() map[int]int {
	counts := make(map[int]int)
	for _, p := range f.Points {
		counts[p.ClusterKey()]++
	}
	return counts
}

// ValidCoordinate reports whether lat/lng are finite and within WGS-84 range.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
