// Command clean merges the raw Michelin guide exports (one file per star
// rating) into the restaurants_clean.csv table the server loads, then
// reports what the server would make of it.
//
// Usage:
//
//	go run ./cmd/clean \
//	  -archive archive \
//	  -out data/restaurants_clean.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/restaurant-insights/internal/adapter/csvfile"
	"github.com/couchcryptid/restaurant-insights/internal/analysis"
	"github.com/couchcryptid/restaurant-insights/internal/dataset"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/couchcryptid/restaurant-insights/internal/spatial"
)

type export struct {
	file  string
	stars int
}

var exports = []export{
	{file: "one-star-michelin-restaurants.csv", stars: 1},
	{file: "two-stars-michelin-restaurants.csv", stars: 2},
	{file: "three-stars-michelin-restaurants.csv", stars: 3},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	archive := flag.String("archive", "archive", "directory containing the per-rating export CSV files")
	out := flag.String("out", "restaurants_clean.csv", "output path for the clean CSV")
	flag.Parse()

	ctx := context.Background()

	sources := make([]dataset.Source, 0, len(exports))
	for _, e := range exports {
		rows, err := readCSV(ctx, filepath.Join(*archive, e.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", e.file, err)
		}
		log.Printf("%s: %d rows", e.file, len(rows))
		sources = append(sources, dataset.Source{Stars: e.stars, Rows: rows})
	}

	res := dataset.Clean(sources)
	log.Printf("kept %d rows, dropped %d with missing columns", len(res.Rows), res.Dropped)

	if err := writeCSV(*out, res.Rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %s", *out)

	return printStats(res.Rows)
}

func readCSV(ctx context.Context, path string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvfile.ParseRows(ctx, f)
}

func writeCSV(path string, rows []domain.RawRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csvfile.WriteRows(f, dataset.Columns, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printStats runs the clean rows through the normalizer and reports the
// per-rating price summary and map coverage.
func printStats(rows []domain.RawRow) error {
	records, rejected := domain.NormalizeRows(rows)
	for _, err := range rejected {
		log.Printf("normalizer rejected: %v", err)
	}

	groups, err := analysis.Aggregate(records, analysis.ByStars, analysis.PriceLevel)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	fmt.Println("\n=== Price level by stars ===")
	for _, g := range groups {
		fmt.Printf("  %d star: n=%-4d min=%.0f q1=%.2f median=%.2f q3=%.2f max=%.0f\n",
			g.Key, g.Count, g.Stats.Min, g.Stats.Q1, g.Stats.Median, g.Stats.Q3, g.Stats.Max)
	}

	feed := spatial.BuildPointFeed(records)
	fmt.Printf("\n=== Map coverage ===\n  %d of %d records geolocatable\n", len(feed.Points), len(records))
	if feed.Bounds != nil {
		b := feed.Bounds
		fmt.Printf("  lat [%.4f, %.4f] lng [%.4f, %.4f]\n", b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	}
	return nil
}
