package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func TestInitTracer_Disabled(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := InitTracer(context.Background(), DefaultConfig("storefront"))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, isSDK)
}

func TestInitTracer_Enabled(t *testing.T) {
	restoreGlobals(t)

	cfg := DefaultConfig("storefront")
	cfg.Enabled = true
	cfg.OTLPEndpoint = "127.0.0.1:0"
	cfg.Environment = "test"

	shutdown, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)

	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, isSDK)

	// Unreachable endpoint; shutdown may report an export error.
	_ = shutdown(context.Background())
}

func TestSampler(t *testing.T) {
	root := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       trace.TraceID{0x01},
		Name:          "op",
	}

	assert.Equal(t, sdktrace.RecordAndSample, Sampler(1).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.RecordAndSample, Sampler(2).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.Drop, Sampler(0).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.Drop, Sampler(-1).ShouldSample(root).Decision)
	assert.Contains(t, Sampler(0.5).Description(), "ParentBased")
}

func TestSampler_SampledParentWins(t *testing.T) {
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	params := sdktrace.SamplingParameters{
		ParentContext: trace.ContextWithRemoteSpanContext(context.Background(), parent),
		TraceID:       parent.TraceID(),
		Name:          "op",
	}

	assert.Equal(t, sdktrace.RecordAndSample, Sampler(0).ShouldSample(params).Decision)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("storefront")
	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.Equal(t, "localhost:4318", cfg.OTLPEndpoint)
}

func TestTracer(t *testing.T) {
	tracer := Tracer("storefront/test")
	require.NotNil(t, tracer)
	_, span := tracer.Start(context.Background(), "op")
	span.End()
}
