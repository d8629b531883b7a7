package domain

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// Unknown is the default for missing categorical fields.
	Unknown = "Unknown"

	defaultStars      = 1
	defaultPriceLevel = 1.0
	defaultYear       = "N/A"
)

var (
	// leadingIntRe matches the integer prefix of a cell, e.g. "2 stars" -> "2", "3.7" -> "3".
	leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)

	// leadingFloatRe matches the decimal prefix of a cell, e.g. "48.85N" -> "48.85".
	leadingFloatRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

	// currencyRe matches guide-style price tiers such as "$$$" or "€€".
	currencyRe = regexp.MustCompile(`^[$€£¥₩]+$`)
)

// Normalize coerces a raw row into a Record. It is the single validation
// boundary: everything downstream trusts the Record's types.
func Normalize(row RawRow) (Record, error) {
	name := row.Get("name")
	if name == "" {
		return Record{}, &MalformedRowError{Field: "name"}
	}

	stars := parseStars(row.Get("stars"))
	price := parsePriceLevel(row.Get("price_level", "price"))

	return Record{
		Name:        name,
		Stars:       stars,
		PriceLevel:  price,
		Cuisine:     orDefault(row.Get("cuisine"), Unknown),
		City:        orDefault(row.Get("city"), Unknown),
		Country:     orDefault(row.Get("country"), Unknown),
		Year:        orDefault(row.Get("year"), defaultYear),
		Lat:         parseCoordinate(row.Get("lat", "latitude")),
		Lng:         parseCoordinate(row.Get("lng", "longitude")),
		Address:     row.Get("address"),
		Description: row.Get("description"),
		Value:       deriveValue(stars, price),
	}, nil
}

// NormalizeRows normalizes a row stream. Accepted records keep input order;
// every rejected row yields a *MalformedRowError carrying its 1-based line.
func NormalizeRows(rows []RawRow) ([]Record, []error) {
	records := make([]Record, 0, len(rows))
	var rejected []error
	for i, row := range rows {
		rec, err := Normalize(row)
		if err != nil {
			var mre *MalformedRowError
			if errors.As(err, &mre) {
				mre.Line = i + 1
			}
			rejected = append(rejected, err)
			continue
		}
		records = append(records, rec)
	}
	return records, rejected
}

// NewSnapshot wraps a freshly loaded record set with an identity and load time.
func NewSnapshot(records []Record, rejected int) *Snapshot {
	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: clock.Now(),
		Records:  records,
		Rejected: rejected,
	}
}

// EmptySnapshot is served before the first successful load.
func EmptySnapshot() *Snapshot {
	return &Snapshot{ID: "empty", Records: []Record{}}
}

// ParseStars applies the stars column's coercion: the leading integer of s,
// so "2", " 2 " and "2 stars" all read as 2. It reports false when s has none.
func ParseStars(s string) (int, bool) {
	return parseLeadingInt(s)
}

func parseStars(s string) int {
	n, ok := ParseStars(s)
	if !ok || n < 1 {
		return defaultStars
	}
	return n
}

// parsePriceLevel accepts a number or a run of currency symbols, whose length is the tier.
func parsePriceLevel(s string) float64 {
	if currencyRe.MatchString(s) {
		return float64(utf8.RuneCountInString(s))
	}
	v := parseLeadingFloat(s)
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return defaultPriceLevel
	}
	return v
}

// parseCoordinate returns NaN for anything that is not a number; coordinates are never defaulted.
func parseCoordinate(s string) float64 {
	return parseLeadingFloat(s)
}

func parseLeadingInt(s string) (int, bool) {
	m := leadingIntRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseLeadingFloat(s string) float64 {
	m := leadingFloatRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// deriveValue is stars per price tier; NaN rather than Inf when the tier is zero.
func deriveValue(stars int, price float64) float64 {
	if price == 0 {
		return math.NaN()
	}
	return float64(stars) / price
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
