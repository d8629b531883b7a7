package analysis

import (
	"fmt"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/vec"
)

// GridMode selects how the density evaluation grid is laid out.
type GridMode string

const (
	// GridEven spaces points evenly from the minimum to the maximum.
	GridEven GridMode = "even"
	// GridNice places points on round tick values covering the range.
	GridNice GridMode = "nice"
)

// ParseGridMode validates a grid mode name.
func ParseGridMode(s string) (GridMode, error) {
	switch m := GridMode(s); m {
	case GridEven, GridNice:
		return m, nil
	default:
		return "", fmt.Errorf("unknown grid mode %q", s)
	}
}

// EvenGrid returns n evenly spaced points spanning [lo, hi].
func EvenGrid(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return vec.Linspace(lo, hi, n)
}

// NiceGrid returns at most n round-valued ticks over [lo, hi] after widening
// the range to nice bounds. It falls back to EvenGrid when no tick level fits.
func NiceGrid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}

	opts := scale.TickOptions{Max: n}
	s := scale.Linear{Min: lo, Max: hi}
	s.Nice(opts)
	major, _ := s.Ticks(opts)
	if len(major) == 0 {
		return EvenGrid(lo, hi, n)
	}
	return major
}

// Grid builds an evaluation grid over [lo, hi] using mode.
func Grid(mode GridMode, lo, hi float64, n int) []float64 {
	if mode == GridNice {
		return NiceGrid(lo, hi, n)
	}
	return EvenGrid(lo, hi, n)
}
