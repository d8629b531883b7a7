//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/restaurant-insights/internal/adapter/kafka"
	"github.com/couchcryptid/restaurant-insights/internal/config"
	"github.com/couchcryptid/restaurant-insights/internal/domain"
	"github.com/couchcryptid/restaurant-insights/internal/observability"
	"github.com/couchcryptid/restaurant-insights/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-restaurant-rows"
	testSinkTopic   = "test-restaurant-charts"
)

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		BatchSize:          50,
		BatchFlushInterval: 500 * time.Millisecond,
	}
}

// publishFixture writes every fixture row as a JSON object, with numeric
// columns encoded as JSON numbers, followed by one undecodable message.
func publishFixture(ctx context.Context, t *testing.T, broker string) []domain.RawRow {
	t.Helper()
	rows := loadFixture(t)

	producer := &kafkago.Writer{
		Addr:     kafkago.TCP(broker),
		Topic:    testSourceTopic,
		Balancer: &kafkago.RoundRobin{},
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(rows)+1)
	for i, row := range rows {
		obj := make(map[string]any, len(row))
		for k, v := range row {
			obj[k] = v
			if n, err := strconv.ParseFloat(v, 64); err == nil && k != "year" {
				obj[k] = n
			}
		}
		payload, err := json.Marshal(obj)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{Key: []byte(fmt.Sprintf("row-%d", i)), Value: payload})
	}
	msgs = append(msgs, kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")})

	require.NoError(t, producer.WriteMessages(ctx, msgs...))
	return rows
}

func names(rows []domain.RawRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Get("name"))
	}
	slices.Sort(out)
	return out
}

// TestKafkaReaderDrainsTopic verifies that every partition is read from the
// start, undecodable messages are skipped, and a second read sees the same rows.
func TestKafkaReaderDrainsTopic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic, 3)

	want := publishFixture(ctx, t, broker)
	reader := kafka.NewReader(testConfig(broker), discardLogger())

	rows, err := reader.ReadRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, fixtureRows)
	assert.Equal(t, names(want), names(rows))

	for _, row := range rows {
		if row.Get("name") == "Le Cinq" {
			assert.Equal(t, "3", row.Get("stars"))
			assert.Equal(t, "48.8686", row.Get("lat"))
		}
	}

	again, err := reader.ReadRows(ctx)
	require.NoError(t, err)
	assert.Len(t, again, fixtureRows)
}

func TestKafkaReaderEmptyTopic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic, 1)

	rows, err := kafka.NewReader(testConfig(broker), discardLogger()).ReadRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// TestPipelineEndToEnd wires Reader → Transformer → Writer against a real
// broker and checks the published chart bundle matches the loaded snapshot.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic, 2)
	createTopic(t, broker, testSinkTopic, 1)
	publishFixture(ctx, t, broker)

	cfg := testConfig(broker)
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(
		kafka.NewReader(cfg, discardLogger()),
		pipeline.NewTransformer(nil, discardLogger()),
		writer, discardLogger(), metrics, pipeline.Settings{},
	)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 60*time.Second)
	msg, err := consumer.ReadMessage(readCtx)
	readCancel()
	require.NoError(t, err, "read from sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)

	snap := p.Current()
	require.Equal(t, fixtureRows, snap.Len())
	assert.Equal(t, snap.ID, string(msg.Key))

	var payload kafka.ChartsMessage
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, snap.ID, payload.SnapshotID)
	assert.Equal(t, fixtureRows, payload.Records)
	assert.Zero(t, payload.Rejected)
	require.Len(t, payload.Charts.BoxPlot, 3)
	assert.Equal(t, 4, payload.Charts.BoxPlot[0].Count)
	assert.NotEmpty(t, payload.Charts.Violin.Groups)
	assert.Len(t, payload.Charts.Scatter.Points, fixtureRows)
}
