package analysis

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Group is one box of a box plot: a grouping key and its value summary.
type Group[K cmp.Ordered] struct {
	Key   K        `json:"key"`
	Count int      `json:"count"`
	Stats BoxStats `json:"stats"`
}

// Aggregate groups records by key and summarizes value within each group.
// Groups come back in ascending key order and only groups with at least one
// finite value appear. It fails with *domain.EmptyInputError when there is
// nothing to summarize.
func Aggregate[K cmp.Ordered](records []domain.Record, key func(domain.Record) K, value func(domain.Record) float64) ([]Group[K], error) {
	if len(records) == 0 {
		return nil, &domain.EmptyInputError{Op: "aggregate"}
	}

	buckets := make(map[K][]float64)
	for _, r := range records {
		v := value(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		k := key(r)
		buckets[k] = append(buckets[k], v)
	}
	if len(buckets) == 0 {
		return nil, &domain.EmptyInputError{Op: "aggregate"}
	}

	keys := slices.Sorted(maps.Keys(buckets))
	groups := make([]Group[K], 0, len(keys))
	for _, k := range keys {
		values := buckets[k]
		groups = append(groups, Group[K]{
			Key:   k,
			Count: len(values),
			Stats: Summarize(values),
		})
	}
	return groups, nil
}

// Key and value accessors used by the standard charts.

func ByStars(r domain.Record) int        { return r.Stars }
func ByCuisine(r domain.Record) string   { return r.Cuisine }
func ByCountry(r domain.Record) string   { return r.Country }
func PriceLevel(r domain.Record) float64 { return r.PriceLevel }
func Stars(r domain.Record) float64      { return float64(r.Stars) }
func Value(r domain.Record) float64      { return r.Value }
