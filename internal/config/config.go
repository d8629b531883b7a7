package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/restaurant-insights/internal/analysis"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Data source kinds.
const (
	SourceCSV   = "csv"
	SourceKafka = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataSource string
	DataPath   string

	KafkaBrokers        []string
	KafkaSourceTopic    string
	KafkaSinkTopic      string
	KafkaPublishEnabled bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// BatchSize and BatchFlushInterval bound a Kafka topic drain: rows are
	// fetched BatchSize at a time until the topic stays idle for the interval.
	BatchSize          int
	BatchFlushInterval time.Duration

	ReloadInterval time.Duration

	// Chart and map parameters.
	KDEBandwidth  float64
	KDEGridSize   int
	KDEGridMode   analysis.GridMode
	BoundsPadding float64

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// DensityOptions returns the violin estimation parameters.
func (c *Config) DensityOptions() analysis.DensityOptions {
	return analysis.DensityOptions{
		Bandwidth: c.KDEBandwidth,
		GridSize:  c.KDEGridSize,
		GridMode:  c.KDEGridMode,
	}
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	reloadInterval, err := parseReloadInterval()
	if err != nil {
		return nil, err
	}

	bandwidth, err := parseFloat("KDE_BANDWIDTH", 0.5)
	if err != nil {
		return nil, err
	}
	if bandwidth <= 0 {
		return nil, errors.New("invalid KDE_BANDWIDTH: must be positive")
	}

	gridSize, err := parseInt("KDE_GRID_SIZE", 40)
	if err != nil {
		return nil, err
	}
	if gridSize < 2 {
		return nil, errors.New("invalid KDE_GRID_SIZE: must be at least 2")
	}

	gridMode, err := analysis.ParseGridMode(sharedcfg.EnvOrDefault("KDE_GRID_MODE", string(analysis.GridEven)))
	if err != nil {
		return nil, fmt.Errorf("invalid KDE_GRID_MODE: %w", err)
	}

	padding, err := parseFloat("BOUNDS_PADDING", 0.1)
	if err != nil {
		return nil, err
	}
	if padding < 0 {
		return nil, errors.New("invalid BOUNDS_PADDING: must not be negative")
	}

	mapboxCacheSize := parseMapboxCacheSize()

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		DataSource: sharedcfg.EnvOrDefault("DATA_SOURCE", SourceCSV),
		DataPath:   sharedcfg.EnvOrDefault("DATA_PATH", "data/restaurants_clean.csv"),

		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:    sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "restaurant-rows"),
		KafkaSinkTopic:      sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "restaurant-charts"),
		KafkaPublishEnabled: os.Getenv("KAFKA_PUBLISH_ENABLED") == "true",

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ReloadInterval:     reloadInterval,

		KDEBandwidth:  bandwidth,
		KDEGridSize:   gridSize,
		KDEGridMode:   gridMode,
		BoundsPadding: padding,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,
	}

	switch cfg.DataSource {
	case SourceCSV:
		if cfg.DataPath == "" {
			return nil, errors.New("DATA_PATH is required when DATA_SOURCE=csv")
		}
	case SourceKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
	default:
		return nil, fmt.Errorf("invalid DATA_SOURCE %q: want csv or kafka", cfg.DataSource)
	}
	if cfg.KafkaPublishEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_PUBLISH_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseReloadInterval allows 0 to mean "load once".
func parseReloadInterval() (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault("RELOAD_INTERVAL", "0s"))
	if err != nil || d < 0 {
		return 0, errors.New("invalid RELOAD_INTERVAL")
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
