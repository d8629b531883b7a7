package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/restaurant-insights/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/restaurant-insights/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/restaurant-insights/internal/adapter/kafka"
	"github.com/couchcryptid/restaurant-insights/internal/adapter/mapbox"
	"github.com/couchcryptid/restaurant-insights/internal/config"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/couchcryptid/restaurant-insights/internal/observability"
	"github.com/couchcryptid/restaurant-insights/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var source pipeline.RowSource
	switch cfg.DataSource {
	case config.SourceKafka:
		source = kafkaadapter.NewReader(cfg, logger)
		logger.Info("reading dataset from kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSourceTopic)
	default:
		source = csvfile.NewSource(cfg.DataPath, logger)
		logger.Info("reading dataset from csv", "path", cfg.DataPath)
	}

	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaPublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("chart publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	transformer := pipeline.NewTransformer(geocoder, logger)
	p := pipeline.New(source, transformer, publisher, logger, metrics, pipeline.Settings{
		ReloadInterval: cfg.ReloadInterval,
		Density:        cfg.DensityOptions(),
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.APIOptions{
		Density:       cfg.DensityOptions(),
		BoundsPadding: cfg.BoundsPadding,
	}, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
		exitCode = 1
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
