package analysis

import (
	"fmt"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Charts bundles the three standard views of a record set.
type Charts struct {
	// BoxPlot summarizes price level per star rating.
	BoxPlot []Group[int] `json:"box_plot"`
	// Violin shows the star distribution per cuisine.
	Violin ViolinPlot[string] `json:"violin"`
	// Scatter plots value for money against price level.
	Scatter Scatter `json:"scatter"`
}

// BuildCharts computes every chart for records.
func BuildCharts(records []domain.Record, opts DensityOptions) (Charts, error) {
	box, err := Aggregate(records, ByStars, PriceLevel)
	if err != nil {
		return Charts{}, fmt.Errorf("box plot: %w", err)
	}
	violin, err := Violin(records, ByCuisine, Stars, opts)
	if err != nil {
		return Charts{}, fmt.Errorf("violin plot: %w", err)
	}
	return Charts{
		BoxPlot: box,
		Violin:  violin,
		Scatter: BuildScatter(records),
	}, nil
}
