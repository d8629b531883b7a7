package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/restaurant-insights/internal/domain"
)

// RecordTransformer implements Transformer using the domain normalizer
// with optional geocoding enrichment.
type RecordTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a RecordTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *RecordTransformer {
	return &RecordTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *RecordTransformer) Transform(ctx context.Context, rows []domain.RawRow) ([]domain.Record, []error) {
	records, rejected := domain.NormalizeRows(rows)
	if t.geocoder == nil {
		return records, rejected
	}
	for i := range records {
		if ctx.Err() != nil {
			break
		}
		records[i] = domain.EnrichWithGeocoding(ctx, records[i], t.geocoder, t.logger)
	}
	return records, rejected
}
