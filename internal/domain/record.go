package domain

import (
	"math"
	"strings"
	"time"
)

// RawRow is one parsed table row: column header → cell text.
type RawRow map[string]string

// Get returns the trimmed cell for the first of keys that holds a non-empty
// value. Header lookups are case-insensitive.
func (r RawRow) Get(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
			continue
		}
		for k, v := range r {
			if !strings.EqualFold(strings.TrimSpace(k), key) {
				continue
			}
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Record is the canonical restaurant entry produced by Normalize.
// Downstream components treat it as a value and never modify it.
type Record struct {
	Name        string  `json:"name"`
	Stars       int     `json:"stars"`
	PriceLevel  float64 `json:"price_level"`
	Cuisine     string  `json:"cuisine"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Year        string  `json:"year"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`

	// Value is Stars / PriceLevel, NaN when PriceLevel is zero.
	Value float64 `json:"value"`
}

// Geolocatable reports whether both coordinates are finite numbers.
func (r Record) Geolocatable() bool {
	return isFinite(r.Lat) && isFinite(r.Lng)
}

// HasValue reports whether the derived value is usable.
func (r Record) HasValue() bool {
	return isFinite(r.Value)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Snapshot is one loaded dataset. It is built once per load and replaced
// wholesale on reload; nothing mutates it after construction.
type Snapshot struct {
	ID       string    `json:"id"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  []Record  `json:"-"`
	Rejected int       `json:"rejected"`
}

// Len returns the number of accepted records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
