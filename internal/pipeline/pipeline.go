package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/restaurant-insights/internal/analysis"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/couchcryptid/restaurant-insights/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// RowSource reads the complete raw dataset.
type RowSource interface {
	ReadRows(ctx context.Context) ([]domain.RawRow, error)
}

// Transformer turns raw rows into records, reporting every rejected row.
type Transformer interface {
	Transform(ctx context.Context, rows []domain.RawRow) ([]domain.Record, []error)
}

// Publisher ships the chart bundle computed for a freshly loaded snapshot.
type Publisher interface {
	Publish(ctx context.Context, snap *domain.Snapshot, charts analysis.Charts) error
}

// Settings tunes the pipeline. Zero values mean: load once, default density
// options, real clock.
type Settings struct {
	ReloadInterval time.Duration
	Density        analysis.DensityOptions
	Clock          clockwork.Clock
}

// Pipeline orchestrates the read-normalize-publish loop and holds the current
// snapshot. Snapshots are immutable; a reload swaps the pointer atomically.
type Pipeline struct {
	source      RowSource
	transformer Transformer
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	settings    Settings
	clock       clockwork.Clock
	current     atomic.Pointer[domain.Snapshot]
	ready       atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to skip publishing.
func New(source RowSource, transformer Transformer, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, settings Settings) *Pipeline {
	if settings.Density == (analysis.DensityOptions{}) {
		settings.Density = analysis.DefaultDensityOptions()
	}
	clock := settings.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	p := &Pipeline{
		source:      source,
		transformer: transformer,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		settings:    settings,
		clock:       clock,
	}
	p.current.Store(domain.EmptySnapshot())
	return p
}

// Current returns the latest snapshot. It is never nil; before the first
// successful load it is empty.
func (p *Pipeline) Current() *domain.Snapshot {
	return p.current.Load()
}

// DensityOptions returns the violin estimation parameters the pipeline uses.
func (p *Pipeline) DensityOptions() analysis.DensityOptions {
	return p.settings.Density
}

// CheckReadiness returns nil once a dataset has been loaded,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Load reads the dataset once and installs a new snapshot. A failed read keeps
// the previous snapshot in place.
func (p *Pipeline) Load(ctx context.Context) error {
	start := p.clock.Now()

	rows, err := p.source.ReadRows(ctx)
	if err != nil {
		p.metrics.Loads.WithLabelValues("error").Inc()
		return fmt.Errorf("read rows: %w", err)
	}
	p.metrics.RowsRead.Add(float64(len(rows)))

	records, rejected := p.transformer.Transform(ctx, rows)
	for _, err := range rejected {
		p.logger.Warn("row rejected", "error", err)
	}
	p.metrics.RowsRejected.Add(float64(len(rejected)))

	snap := domain.NewSnapshot(records, len(rejected))
	p.current.Store(snap)
	p.ready.Store(true)

	p.metrics.RecordsLoaded.Set(float64(snap.Len()))
	p.metrics.Loads.WithLabelValues("success").Inc()
	p.metrics.LoadDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Info("dataset loaded",
		"snapshot", snap.ID,
		"rows", len(rows),
		"records", snap.Len(),
		"rejected", snap.Rejected,
	)

	p.publish(ctx, snap)
	return nil
}

// publish ships charts for a non-empty snapshot. Failures are logged; the
// snapshot stays installed.
func (p *Pipeline) publish(ctx context.Context, snap *domain.Snapshot) {
	if p.publisher == nil || snap.Len() == 0 {
		return
	}
	charts, err := analysis.BuildCharts(snap.Records, p.settings.Density)
	if err != nil {
		p.logger.Error("build charts failed", "snapshot", snap.ID, "error", err)
		return
	}
	if err := p.publisher.Publish(ctx, snap, charts); err != nil {
		p.logger.Error("publish charts failed", "snapshot", snap.ID, "error", err)
		return
	}
	p.metrics.ChartsPublished.Inc()
}

// Run loads the dataset, then reloads it every ReloadInterval until the
// context is cancelled. Failed loads are retried with exponential backoff.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "reload_interval", p.settings.ReloadInterval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff
	for {
		if err := p.Load(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("load failed", "error", err, "retry_in", backoff)
			if !p.sleep(ctx, backoff) {
				break
			}
			backoff = nextBackoff(backoff)
			continue
		}
		backoff = initialBackoff

		if p.settings.ReloadInterval <= 0 {
			<-ctx.Done()
			break
		}
		if !p.sleep(ctx, p.settings.ReloadInterval) {
			break
		}
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(d):
		return true
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
