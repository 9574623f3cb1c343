package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Event tests ---

func TestNewEvent_Fields(t *testing.T) {
	type basketData struct {
		Count int   `json:"count"`
		Total int64 `json:"total"`
	}

	data := basketData{Count: 2, Total: 100}
	event, err := NewEvent("basket.updated", "sess-1", "storefront", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "basket.updated", event.EventType)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, "storefront", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.OccurredAt, 2*time.Second)

	var decoded basketData
	require.NoError(t, json.Unmarshal(event.Data, &decoded))
	assert.Equal(t, data, decoded)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("basket.updated", "sess-1", "storefront", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basket.updated")
}

func TestEvent_MarshalUnmarshal(t *testing.T) {
	original, err := NewEvent("order.placed", "sess-9", "storefront", map[string]int64{"total": 250})
	require.NoError(t, err)
	original.WithCorrelationID("corr-abc")

	raw, err := original.Marshal()
	require.NoError(t, err)

	var restored Event
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, original.SessionID, restored.SessionID)
	assert.Equal(t, "corr-abc", restored.CorrelationID)
	assert.JSONEq(t, string(original.Data), string(restored.Data))
}

// --- Topic tests ---

func TestTopic(t *testing.T) {
	assert.Equal(t, "weblarek.basket.updated", Topic("basket", "updated"))
	assert.Equal(t, "weblarek.order.placed", Topic("order", "placed"))
}

// --- Producer tests ---

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.True(t, cfg.Async)
}

func TestProducer_Publish_WritesKeyedMessage(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, discardLogger())

	event, err := NewEvent("order.placed", "sess-1", "storefront", map[string]string{"id": "o-1"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	require.NoError(t, p.Publish(context.Background(), Topic("order", "placed"), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "weblarek.order.placed", msg.Topic)
	assert.Equal(t, "sess-1", string(msg.Key))

	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, "order.placed", carrier.Get("event_type"))
	assert.Equal(t, "storefront", carrier.Get("source"))
	assert.Equal(t, "corr-1", carrier.Get("correlation_id"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
}

func TestProducer_Publish_InjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, discardLogger())
	event, err := NewEvent("basket.updated", "sess-1", "storefront", nil)
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, "t", event))
	require.Len(t, w.messages, 1)

	traceparent := NewHeaderCarrier(&w.messages[0].Headers).Get("traceparent")
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}

func TestProducer_Publish_WriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, nil, discardLogger())
	event, err := NewEvent("basket.updated", "sess-1", "storefront", nil)
	require.NoError(t, err)

	err = p.Publish(context.Background(), "weblarek.basket.updated", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weblarek.basket.updated")
	assert.Contains(t, err.Error(), "broker down")
}

func TestProducer_Close(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, nil, nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewProducer_DoesNotConnect(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), discardLogger())
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}

// --- HeaderCarrier tests ---

func TestHeaderCarrier_SetGetKeys(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("v1")}}
	carrier := NewHeaderCarrier(&headers)

	assert.Equal(t, "v1", carrier.Get("existing"))
	assert.Empty(t, carrier.Get("missing"))

	carrier.Set("new", "v2")
	carrier.Set("existing", "updated")

	assert.Equal(t, "updated", carrier.Get("existing"))
	assert.Equal(t, "v2", carrier.Get("new"))
	assert.ElementsMatch(t, []string{"existing", "new"}, carrier.Keys())
	assert.Len(t, headers, 2)
}
