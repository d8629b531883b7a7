package analysis

import (
	"errors"
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// ErrInvalidBandwidth is returned for a bandwidth that is not a finite positive number.
var ErrInvalidBandwidth = errors.New("kde bandwidth must be a finite positive number")

// DensityPoint is one sample of a density curve.
type DensityPoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// Epanechnikov returns the Epanechnikov kernel scaled to bandwidth h. The 1/h
// normalization is part of the kernel, so averaging it over a sample yields a
// density.
func Epanechnikov(h float64) func(d float64) float64 {
	return func(d float64) float64 {
		u := d / h
		if !(math.Abs(u) <= 1) {
			return 0
		}
		return 0.75 * (1 - u*u) / h
	}
}

// EstimateDensity evaluates the kernel density estimate of values at each grid
// point. Non-finite values are skipped; a sample with no finite values yields
// zero density everywhere.
func EstimateDensity(values, grid []float64, bandwidth float64) ([]DensityPoint, error) {
	if !validBandwidth(bandwidth) {
		return nil, ErrInvalidBandwidth
	}
	values = finite(values)

	kernel := Epanechnikov(bandwidth)
	curve := make([]DensityPoint, len(grid))
	for i, x := range grid {
		curve[i].X = x
		if len(values) == 0 {
			continue
		}
		curve[i].Density = stats.Mean(vec.Map(func(v float64) float64 { return kernel(x - v) }, values))
	}
	return curve, nil
}

// MaxDensity returns the largest density across all curves, 0 for none.
func MaxDensity(curves ...[]DensityPoint) float64 {
	m := 0.0
	for _, c := range curves {
		for _, p := range c {
			if p.Density > m {
				m = p.Density
			}
		}
	}
	return m
}

func validBandwidth(h float64) bool {
	return h > 0 && !math.IsInf(h, 1)
}

// finite returns values without NaN and ±Inf, reusing the input when it is clean.
func finite(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out := slices.Clone(values[:i])
			for _, w := range values[i+1:] {
				if !math.IsNaN(w) && !math.IsInf(w, 0) {
					out = append(out, w)
				}
			}
			return out
		}
	}
	return values
}
