package filter

import (
	"cmp"
	"maps"
	"slices"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Options lists the distinct values available to each filter control.
type Options struct {
	Countries []string `json:"countries"`
	Cities    []string `json:"cities"`
	Cuisines  []string `json:"cuisines"`
	Stars     []int    `json:"stars"`
}

// OptionsFor collects sorted, de-duplicated, non-empty values from records.
func OptionsFor(records []domain.Record) Options {
	return Options{
		Countries: distinct(records, func(r domain.Record) string { return r.Country }),
		Cities:    distinct(records, func(r domain.Record) string { return r.City }),
		Cuisines:  distinct(records, func(r domain.Record) string { return r.Cuisine }),
		Stars:     distinct(records, func(r domain.Record) int { return r.Stars }),
	}
}

func distinct[K cmp.Ordered](records []domain.Record, field func(domain.Record) K) []K {
	var zero K
	seen := make(map[K]struct{})
	for _, r := range records {
		if v := field(r); v != zero {
			seen[v] = struct{}{}
		}
	}
	out := slices.Sorted(maps.Keys(seen))
	if out == nil {
		return []K{}
	}
	return out
}
