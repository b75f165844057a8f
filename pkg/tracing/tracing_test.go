package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installRecorder 用内存SpanRecorder替换全局TracerProvider
func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	prev := otel.GetTracerProvider()
	rec := tracetest.NewSpanRecorder()
	shutdown, err := install(context.Background(), "test-service", sdktrace.WithSpanProcessor(rec))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return rec
}

func TestStartSpan_RecordsParentChild(t *testing.T) {
	rec := installRecorder(t)

	ctx, parent := StartSpan(context.Background(), "test", "PlaceOrder")
	traceID := ExtractTraceID(ctx)
	assert.Len(t, traceID, 32)
	assert.Len(t, ExtractSpanID(ctx), 16)

	childCtx, child := StartSpan(ctx, "test", "DecrStock")
	child.SetAttributes(attribute.Int("book_id", 3))
	assert.Equal(t, traceID, ExtractTraceID(childCtx), "子Span应属于同一个Trace")
	child.End()
	parent.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "DecrStock", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("book_id", 3))
}

func TestExtractIDs_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
