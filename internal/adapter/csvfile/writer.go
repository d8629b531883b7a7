package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// WriteRows writes columns as the header line, then one line per row in
// column order. Missing cells are written empty.
func WriteRows(w io.Writer, columns []string, rows []domain.RawRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(columns))
	for i, row := range rows {
		for j, col := range columns {
			line[j] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
