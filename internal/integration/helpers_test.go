package integration_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/restaurant-insights/internal/adapter/csvfile"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/stretchr/testify/require"
)

// fixturePath is the sample dataset shipped with the repository.
var fixturePath = filepath.Join("..", "..", "data", "restaurants_clean.csv")

const fixtureRows = 16

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadFixture(t *testing.T) []domain.RawRow {
	t.Helper()
	f, err := os.Open(fixturePath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csvfile.ParseRows(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, rows, fixtureRows)
	return rows
}
