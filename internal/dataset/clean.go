// Package dataset turns the raw per-rating Michelin guide exports into the
// single clean table the service loads.
package dataset

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Columns is the clean table layout, in output order.
var Columns = []string{"name", "stars", "price_level", "cuisine", "city", "country", "year", "lat", "lng", "address"}

// renames maps export column names onto clean column names.
var renames = map[string]string{
	"region":    "country",
	"latitude":  "lat",
	"longitude": "lng",
	"url":       "address",
}

// required columns must be non-empty after cleaning or the row is dropped.
var required = []string{"name", "year", "lat", "lng", "city", "country"}

// Source is one export file; every row in it carries the same star rating.
type Source struct {
	Stars int
	Rows  []domain.RawRow
}

// Result is the merged clean table.
type Result struct {
	Rows    []domain.RawRow
	Dropped int
}

// Clean merges sources in order and normalizes each row. Rows missing a
// required column are dropped and counted.
func Clean(sources []Source) Result {
	title := cases.Title(language.Und)

	var res Result
	for _, src := range sources {
		stars := strconv.Itoa(src.Stars)
		for _, raw := range src.Rows {
			row, ok := cleanRow(raw, stars, title)
			if !ok {
				res.Dropped++
				continue
			}
			res.Rows = append(res.Rows, row)
		}
	}
	return res
}

func cleanRow(raw domain.RawRow, stars string, title cases.Caser) (domain.RawRow, bool) {
	row := make(domain.RawRow, len(Columns))
	for k, v := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if to, ok := renames[k]; ok {
			k = to
		}
		row[k] = strings.TrimSpace(v)
	}

	row["stars"] = stars
	row["price_level"] = strconv.Itoa(priceLevel(row["price"]))
	row["cuisine"] = firstCuisine(row["cuisine"])
	for _, col := range []string{"city", "country"} {
		row[col] = title.String(row[col])
	}

	for _, col := range required {
		if row[col] == "" {
			return nil, false
		}
	}

	out := make(domain.RawRow, len(Columns))
	for _, col := range Columns {
		out[col] = row[col]
	}
	return out, true
}

// priceLevel counts currency symbols ("$$$" is 3). Anything else is level 1.
func priceLevel(price string) int {
	if price == "" || strings.Trim(price, "$€£¥₩") != "" {
		return 1
	}
	return utf8.RuneCountInString(price)
}

// firstCuisine keeps the first entry of a comma-separated list.
func firstCuisine(cuisine string) string {
	first, _, _ := strings.Cut(cuisine, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return domain.Unknown
}
