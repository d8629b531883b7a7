package analysis

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// DensityOptions parameterizes violin density estimation.
type DensityOptions struct {
	Bandwidth float64
	GridSize  int
	GridMode  GridMode
}

// DefaultDensityOptions returns bandwidth 0.5 over a 40-point even grid.
func DefaultDensityOptions() DensityOptions {
	return DensityOptions{Bandwidth: 0.5, GridSize: 40, GridMode: GridEven}
}

// Validate reports the first invalid option.
func (o DensityOptions) Validate() error {
	if !validBandwidth(o.Bandwidth) {
		return ErrInvalidBandwidth
	}
	if o.GridSize < 2 {
		return fmt.Errorf("kde grid size must be at least 2, got %d", o.GridSize)
	}
	if _, err := ParseGridMode(string(o.GridMode)); err != nil {
		return err
	}
	return nil
}

// ViolinGroup is the density curve of one group.
type ViolinGroup[K cmp.Ordered] struct {
	Key   K              `json:"key"`
	Count int            `json:"count"`
	Curve []DensityPoint `json:"curve"`
}

// ViolinPlot holds per-group curves on a shared grid. MaxDensity is the
// largest density over every group and grid point, for a common width scale.
type ViolinPlot[K cmp.Ordered] struct {
	Grid       []float64        `json:"grid"`
	Groups     []ViolinGroup[K] `json:"groups"`
	MaxDensity float64          `json:"max_density"`
}

// Violin estimates the density of value within each key group. Groups are
// returned in ascending key order.
func Violin[K cmp.Ordered](records []domain.Record, key func(domain.Record) K, value func(domain.Record) float64, opts DensityOptions) (ViolinPlot[K], error) {
	if err := opts.Validate(); err != nil {
		return ViolinPlot[K]{}, err
	}
	if len(records) == 0 {
		return ViolinPlot[K]{}, &domain.EmptyInputError{Op: "violin"}
	}

	buckets := make(map[K][]float64)
	all := make([]float64, 0, len(records))
	for _, r := range records {
		v := value(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		k := key(r)
		buckets[k] = append(buckets[k], v)
		all = append(all, v)
	}
	if len(all) == 0 {
		return ViolinPlot[K]{}, &domain.EmptyInputError{Op: "violin"}
	}

	lo, hi := stats.Bounds(all)
	if lo == hi {
		// A single distinct value still gets a visible curve.
		lo, hi = lo-opts.Bandwidth, hi+opts.Bandwidth
	}
	grid := Grid(opts.GridMode, lo, hi, opts.GridSize)

	plot := ViolinPlot[K]{Grid: grid}
	for _, k := range slices.Sorted(maps.Keys(buckets)) {
		curve, err := EstimateDensity(buckets[k], grid, opts.Bandwidth)
		if err != nil {
			return ViolinPlot[K]{}, err
		}
		plot.Groups = append(plot.Groups, ViolinGroup[K]{Key: k, Count: len(buckets[k]), Curve: curve})
		plot.MaxDensity = math.Max(plot.MaxDensity, MaxDensity(curve))
	}
	return plot, nil
}
