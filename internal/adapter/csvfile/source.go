// Package csvfile reads and writes header-first CSV datasets.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// Source reads the dataset from a CSV file on every load.
// It implements pipeline.RowSource.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a file-backed row source.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// ReadRows opens the file and parses every data row.
func (s *Source) ReadRows(ctx context.Context) ([]domain.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := ParseRows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.logger.Debug("csv dataset read", "path", s.path, "rows", len(rows))
	return rows, nil
}

// ParseRows reads a header line followed by data rows. Column names are
// lowercased and trimmed; short rows leave trailing columns unset and extra
// cells are ignored. Blank lines are skipped.
func ParseRows(ctx context.Context, r io.Reader) ([]domain.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}

	var rows []domain.RawRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		row := make(domain.RawRow, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(cells) {
				continue
			}
			row[col] = cells[i]
		}
		rows = append(rows, row)
	}
}
