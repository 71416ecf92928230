package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/output/events"
)

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOTelHook_SpanPerRun(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	h := NewOTelHookWithExporter(OTelOptions{}, exp)
	t.Cleanup(func() { _ = h.Close() })

	feed(t, h, runEvents(t, true))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "tdgen.generate", span.Name)
	assert.Equal(t, codes.Ok, span.Status.Code)

	require.Len(t, span.Events, 5)
	for _, ev := range span.Events {
		assert.Equal(t, "payload", ev.Name)
	}
	rule, ok := attrValue(span.Events[0].Attributes, "rule")
	require.True(t, ok)
	assert.Equal(t, "valid", rule.AsString())

	total, ok := attrValue(span.Attributes, "totals.payloads")
	require.True(t, ok)
	assert.EqualValues(t, 5, total.AsInt64())

	runID, ok := attrValue(span.Attributes, "run_id")
	require.True(t, ok)
	assert.Equal(t, testRunID, runID.AsString())
}

func TestOTelHook_FailedRunSetsErrorStatus(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	h := NewOTelHookWithExporter(OTelOptions{}, exp)
	t.Cleanup(func() { _ = h.Close() })

	feed(t, h, runEvents(t, false))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Status.Description, "permission denied")
}

func TestOTelHook_CaseWithoutStartIsIgnored(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	h := NewOTelHookWithExporter(OTelOptions{}, exp)
	t.Cleanup(func() { _ = h.Close() })

	evs := runEvents(t, true)
	require.NoError(t, h.OnEvent(context.Background(), evs[1]))
	assert.Empty(t, exp.GetSpans())
}

func TestOTelHook_CloseEndsOpenSpan(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	h := NewOTelHookWithExporter(OTelOptions{}, exp)

	evs := runEvents(t, true)
	require.NoError(t, h.OnEvent(context.Background(), evs[0]))
	assert.Empty(t, exp.GetSpans())

	// The in-memory exporter resets on shutdown.
	require.NoError(t, h.Close())
	assert.Nil(t, h.rootSpan)
	require.NoError(t, h.Close())

	require.NoError(t, h.OnEvent(context.Background(), evs[0]))
	assert.Nil(t, h.rootSpan)
}

func TestOTelHook_Defaults(t *testing.T) {
	h := NewOTelHookWithExporter(OTelOptions{}, tracetest.NewInMemoryExporter())
	t.Cleanup(func() { _ = h.Close() })

	assert.Equal(t, defaults.ToolName, h.ServiceName())
	assert.Equal(t, "localhost:4317", h.Endpoint())
	assert.ElementsMatch(t, []events.EventType{
		events.EventTypeStart, events.EventTypeCase, events.EventTypeSummary, events.EventTypeComplete,
	}, h.EventTypes())
}

func TestNewOTelHook_DoesNotBlockWithoutCollector(t *testing.T) {
	h, err := NewOTelHook(OTelOptions{
		Endpoint:    "127.0.0.1:1",
		ServiceName: "tdgen-test",
		Insecure:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "tdgen-test", h.ServiceName())
	assert.Equal(t, "127.0.0.1:1", h.Endpoint())
	_ = h.Close()
}
