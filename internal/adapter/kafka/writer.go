package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/restaurant-insights/internal/analysis"
	"github.com/couchcryptid/restaurant-insights/internal/config"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces chart bundles to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// ChartsMessage is the payload published for every loaded snapshot.
type ChartsMessage struct {
	SnapshotID string          `json:"snapshot_id"`
	LoadedAt   time.Time       `json:"loaded_at"`
	Records    int             `json:"records"`
	Rejected   int             `json:"rejected"`
	Charts     analysis.Charts `json:"charts"`
}

// Publish writes the chart bundle for snap, keyed by snapshot ID.
func (w *Writer) Publish(ctx context.Context, snap *domain.Snapshot, charts analysis.Charts) error {
	msg, err := serializeToMessage(snap, charts)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write charts message: %w", err)
	}
	w.logger.Debug("charts published", "snapshot", snap.ID, "topic", w.writer.Topic, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a snapshot's charts into a Kafka message.
func serializeToMessage(snap *domain.Snapshot, charts analysis.Charts) (kafkago.Message, error) {
	data, err := json.Marshal(ChartsMessage{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Records:    snap.Len(),
		Rejected:   snap.Rejected,
		Charts:     charts,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize charts: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "snapshot_id", Value: []byte(snap.ID)},
			{Key: "loaded_at", Value: []byte(snap.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
