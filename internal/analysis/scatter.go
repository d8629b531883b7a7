package analysis

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Extent is a closed numeric interval.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScatterPoint is one restaurant on the price-level vs value plot.
type ScatterPoint struct {
	Name       string  `json:"name"`
	Stars      int     `json:"stars"`
	PriceLevel float64 `json:"price_level"`
	Value      float64 `json:"value"`
	Cuisine    string  `json:"cuisine"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
}

// Scatter is the value-for-money series with its axis extents.
type Scatter struct {
	Points []ScatterPoint `json:"points"`
	X      Extent         `json:"x"`
	Y      Extent         `json:"y"`
}

// BuildScatter plots PriceLevel against Value. Records without a usable value
// are left out; with no points the extents are zero.
func BuildScatter(records []domain.Record) Scatter {
	points := make([]ScatterPoint, 0, len(records))
	xs := make([]float64, 0, len(records))
	ys := make([]float64, 0, len(records))
	for _, r := range records {
		if !r.HasValue() {
			continue
		}
		points = append(points, ScatterPoint{
			Name:       r.Name,
			Stars:      r.Stars,
			PriceLevel: r.PriceLevel,
			Value:      r.Value,
			Cuisine:    r.Cuisine,
			City:       r.City,
			Country:    r.Country,
		})
		xs = append(xs, r.PriceLevel)
		ys = append(ys, r.Value)
	}

	s := Scatter{Points: points}
	if len(points) > 0 {
		s.X.Min, s.X.Max = stats.Bounds(xs)
		s.Y.Min, s.Y.Max = stats.Bounds(ys)
	}
	return s
}
