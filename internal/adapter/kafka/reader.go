package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/restaurant-insights/internal/config"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader loads the full dataset from a Kafka topic. Each message holds one row
// as a flat JSON object. It implements pipeline.RowSource.
type Reader struct {
	brokers   []string
	topic     string
	batchSize int
	maxWait   time.Duration
	logger    *slog.Logger
}

// NewReader creates a topic reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	return &Reader{
		brokers:   cfg.KafkaBrokers,
		topic:     cfg.KafkaSourceTopic,
		batchSize: cfg.BatchSize,
		maxWait:   cfg.BatchFlushInterval,
		logger:    logger,
	}
}

// ReadRows drains every partition from its first retained offset up to the
// high watermark observed when the read started. Messages that are not JSON
// objects are logged and skipped.
func (r *Reader) ReadRows(ctx context.Context) ([]domain.RawRow, error) {
	partitions, err := r.partitions(ctx)
	if err != nil {
		return nil, err
	}

	var rows []domain.RawRow
	for _, p := range partitions {
		part, err := r.readPartition(ctx, p)
		if err != nil {
			return nil, err
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

func (r *Reader) partitions(ctx context.Context) ([]int, error) {
	conn, err := kafkago.DialContext(ctx, "tcp", r.brokers[0])
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	parts, err := conn.ReadPartitions(r.topic)
	if err != nil {
		return nil, fmt.Errorf("read partitions of %s: %w", r.topic, err)
	}
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ID)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Reader) readPartition(ctx context.Context, partition int) ([]domain.RawRow, error) {
	leader, err := kafkago.DialLeader(ctx, "tcp", r.brokers[0], r.topic, partition)
	if err != nil {
		return nil, fmt.Errorf("dial leader for partition %d: %w", partition, err)
	}
	first, last, err := leader.ReadOffsets()
	_ = leader.Close()
	if err != nil {
		return nil, fmt.Errorf("read offsets for partition %d: %w", partition, err)
	}
	if last <= first {
		return nil, nil
	}

	kr := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:       r.brokers,
		Topic:         r.topic,
		Partition:     partition,
		MinBytes:      1,
		MaxBytes:      10e6,
		MaxWait:       r.maxWait,
		QueueCapacity: r.batchSize,
	})
	defer kr.Close()

	if err := kr.SetOffset(first); err != nil {
		return nil, fmt.Errorf("seek partition %d: %w", partition, err)
	}
	rows, err := r.drain(ctx, kr, last, idleTimeout(r.maxWait))
	if err != nil {
		return nil, fmt.Errorf("read partition %d: %w", partition, err)
	}
	return rows, nil
}

// minIdle bounds how long a partition may stay silent before the remaining
// offsets below the watermark are treated as holding no data records.
const minIdle = 2 * time.Second

func idleTimeout(maxWait time.Duration) time.Duration {
	return max(4*maxWait, minIdle)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Lag() int64
}

// drain reads messages until the one at last-1, until the reader reports no
// lag, or until nothing arrives within idle. Trailing offsets that are
// transaction markers or compacted away are never delivered.
func (r *Reader) drain(ctx context.Context, mr messageReader, last int64, idle time.Duration) ([]domain.RawRow, error) {
	var rows []domain.RawRow
	for {
		readCtx, cancel := context.WithTimeout(ctx, idle)
		msg, err := mr.ReadMessage(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				r.logger.Debug("partition idle below high watermark", "topic", r.topic, "watermark", last)
				return rows, nil
			}
			return nil, err
		}

		row, err := decodeRow(msg.Value)
		if err != nil {
			r.logger.Warn("skipping undecodable message",
				"error", err,
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
			)
		} else {
			rows = append(rows, row)
		}

		if msg.Offset >= last-1 || mr.Lag() == 0 {
			return rows, nil
		}
	}
}

var errNotObject = errors.New("message is not a JSON object")

// decodeRow parses a flat JSON object into a RawRow. Numbers keep their
// literal text, booleans become "true"/"false", nulls are dropped, and nested
// values are kept as compact JSON.
func decodeRow(data []byte) (domain.RawRow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	if obj == nil {
		return nil, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode row: trailing data after object")
	}

	row := make(domain.RawRow, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
		case string:
			row[k] = val
		case json.Number:
			row[k] = val.String()
		case bool:
			row[k] = strconv.FormatBool(val)
		default:
			nested, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("decode row: field %s: %w", k, err)
			}
			row[k] = string(nested)
		}
	}
	return row, nil
}
