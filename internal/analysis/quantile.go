package analysis

import (
	"math"
	"slices"
)

// BoxStats is the five-number summary drawn by a box plot.
type BoxStats struct {
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Quantile returns the p-quantile of an ascending sample using linear
// interpolation at position p·(n−1). It returns NaN for an empty sample.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	lo, hi := sorted[i], sorted[i+1]
	return lo + (hi-lo)*(pos-float64(i))
}

// Summarize computes box statistics for a non-empty sample. The input is not modified.
func Summarize(values []float64) BoxStats {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return BoxStats{
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}
