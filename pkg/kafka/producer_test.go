package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func headerValue(msg kafka.Message, key string) string {
	return NewHeaderCarrier(&msg).Get(key)
}

// --- Event ---

func TestNewEvent_Fields(t *testing.T) {
	type cartData struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}

	data := cartData{ProductID: 3, Quantity: 2}
	event, err := NewEvent("storefront.cart.updated", "sess-1", "cart", "storefront", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "storefront.cart.updated", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got cartData
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, data, got)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("x", "agg", "t", "svc", make(chan int))
	require.Error(t, err)
}

func TestEvent_Message(t *testing.T) {
	event, err := NewEvent("storefront.catalog.loaded", "sess-1", "catalog", "storefront", map[string]int{"count": 20})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	msg, err := event.message("storefront.catalog.loaded")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", string(msg.Key))
	assert.Equal(t, "corr-1", headerValue(msg, "correlation_id"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, EventVersion, decoded.Version)
	assert.JSONEq(t, `{"count":20}`, string(decoded.Data))
}

func TestEvent_MessageWithoutCorrelationID(t *testing.T) {
	event, err := NewEvent("e", "agg", "t", "svc", nil)
	require.NoError(t, err)

	msg, err := event.message("topic")
	require.NoError(t, err)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "null", string(event.Data))
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.cart.updated", Topic("cart", "updated"))
	assert.Equal(t, "storefront.wishlist.toggled", Topic("wishlist", "toggled"))
}

// --- Carrier ---

func TestKafkaHeaderCarrier(t *testing.T) {
	msg := kafka.Message{Headers: []kafka.Header{{Key: "existing", Value: []byte("v1")}}}
	carrier := NewHeaderCarrier(&msg)

	assert.Equal(t, "v1", carrier.Get("existing"))
	assert.Empty(t, carrier.Get("missing"))

	carrier.Set("existing", "v2")
	carrier.Set("added", "v3")
	assert.Equal(t, "v2", carrier.Get("existing"))
	assert.ElementsMatch(t, []string{"existing", "added"}, carrier.Keys())
	assert.Len(t, msg.Headers, 2)
}

// --- Producer ---

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.Async)
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, testLogger())

	event, err := NewEvent("storefront.cart.updated", "sess-9", "cart", "storefront", map[string]int{"lines": 1})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	topic := Topic("cart", "publish-test")
	before := counterValue(t, eventsPublished.WithLabelValues(topic, resultOK))
	require.NoError(t, p.Publish(context.Background(), topic, event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, "sess-9", string(msg.Key))
	assert.Equal(t, "storefront.cart.updated", headerValue(msg, "event_type"))
	assert.Equal(t, "storefront", headerValue(msg, "source"))
	assert.Equal(t, "corr-9", headerValue(msg, "correlation_id"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)

	assert.Equal(t, before+1, counterValue(t, eventsPublished.WithLabelValues(topic, resultOK)))
}

func TestProducer_PublishInjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, testLogger())
	event, err := NewEvent("e", "agg", "t", "svc", nil)
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, "topic", event))

	require.Len(t, w.msgs, 1)
	assert.Contains(t, headerValue(w.msgs[0], "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, nil, testLogger())

	topic := Topic("cart", "error-test")
	before := counterValue(t, eventsPublished.WithLabelValues(topic, resultError))

	event, err := NewEvent("e", "agg", "t", "svc", nil)
	require.NoError(t, err)
	err = p.Publish(context.Background(), topic, event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, before+1, counterValue(t, eventsPublished.WithLabelValues(topic, resultError)))
}

func TestProducer_CloseAndPing(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, nil)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	assert.Error(t, p.Ping(context.Background()))
}

func TestNewProducer_DoesNotConnect(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), nil)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}
