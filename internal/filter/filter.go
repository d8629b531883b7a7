// Package filter selects restaurants matching the map's filter controls.
package filter

import (
	"strings"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Criteria is the filter state built by a UI layer. Every field is optional:
// an empty selection or an empty search places no constraint.
type Criteria struct {
	Countries []string `json:"countries,omitempty"`
	Cities    []string `json:"cities,omitempty"`
	Cuisines  []string `json:"cuisines,omitempty"`
	// Stars holds selected ratings as entered, coerced the way the stars column
	// is; values without a leading integer are ignored.
	Stars  []string `json:"stars,omitempty"`
	Search string   `json:"search,omitempty"`
}

// IsEmpty reports whether the criteria match every record.
func (c Criteria) IsEmpty() bool {
	return len(c.Countries) == 0 && len(c.Cities) == 0 && len(c.Cuisines) == 0 &&
		len(parseStars(c.Stars)) == 0 && c.Search == ""
}

// matcher is Criteria compiled into lookup sets.
type matcher struct {
	countries map[string]struct{}
	cities    map[string]struct{}
	cuisines  map[string]struct{}
	stars     map[int]struct{}
	search    string
}

func compile(c Criteria) matcher {
	return matcher{
		countries: toSet(c.Countries),
		cities:    toSet(c.Cities),
		cuisines:  toSet(c.Cuisines),
		stars:     parseStars(c.Stars),
		search:    strings.ToLower(c.Search),
	}
}

func (m matcher) match(r domain.Record) bool {
	return in(m.countries, r.Country) &&
		in(m.cities, r.City) &&
		in(m.cuisines, r.Cuisine) &&
		in(m.stars, r.Stars) &&
		m.matchSearch(r)
}

func (m matcher) matchSearch(r domain.Record) bool {
	if m.search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), m.search) {
		return true
	}
	return r.Description != "" && strings.Contains(strings.ToLower(r.Description), m.search)
}

// Apply returns the records matching every constraint in c, in their original
// order. The input slice is never modified.
func Apply(records []domain.Record, c Criteria) []domain.Record {
	m := compile(c)
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// in treats an empty set as "no constraint".
func in[K comparable](set map[K]struct{}, v K) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[v]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// parseStars coerces selected ratings to the stored integer type, dropping anything unparsable.
func parseStars(values []string) map[int]struct{} {
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		n, ok := domain.ParseStars(v)
		if !ok {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}
