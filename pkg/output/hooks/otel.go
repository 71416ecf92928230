package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/duration"
	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*OTelHook)(nil)

// OTelHook exports one trace per generation run. The root span covers the
// run and every generated payload becomes a span event on it.
type OTelHook struct {
	opts           OTelOptions
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	mu       sync.Mutex
	rootSpan trace.Span
	closed   bool
}

// OTelOptions configures the OpenTelemetry hook behavior.
type OTelOptions struct {
	// Endpoint is the OTLP gRPC endpoint (default: "localhost:4317").
	Endpoint string

	// ServiceName is the service name for traces (default: "tdgen").
	ServiceName string

	// Insecure disables TLS.
	Insecure bool

	// Headers are sent with every export request.
	Headers map[string]string

	// ShutdownTimeout bounds the final flush (default: duration.TelemetryShutdown).
	ShutdownTimeout time.Duration

	// ConnectionTimeout bounds exporter creation (default: duration.TelemetryConnect).
	ConnectionTimeout time.Duration
}

func (o *OTelOptions) applyDefaults() {
	if o.ServiceName == "" {
		o.ServiceName = defaults.ToolName
	}
	if o.Endpoint == "" {
		o.Endpoint = "localhost:4317"
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = duration.TelemetryShutdown
	}
	if o.ConnectionTimeout == 0 {
		o.ConnectionTimeout = duration.TelemetryConnect
	}
}

// NewOTelHook creates a hook exporting over OTLP/gRPC and installs its
// tracer provider as the global one. Export failures surface on Close, never
// during generation.
func NewOTelHook(opts OTelOptions) (*OTelHook, error) {
	opts.applyDefaults()

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	if len(opts.Headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(opts.Headers))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("otel: create exporter: %w", err)
	}

	hook := newOTelHook(opts, sdktrace.NewBatchSpanProcessor(exporter,
		sdktrace.WithBatchTimeout(duration.TelemetryBatch)))
	otel.SetTracerProvider(hook.tracerProvider)
	return hook, nil
}

// NewOTelHookWithExporter creates a hook that hands each finished span to
// exporter synchronously. The global tracer provider is left untouched.
func NewOTelHookWithExporter(opts OTelOptions, exporter sdktrace.SpanExporter) *OTelHook {
	opts.applyDefaults()
	return newOTelHook(opts, sdktrace.NewSimpleSpanProcessor(exporter))
}

func newOTelHook(opts OTelOptions, sp sdktrace.SpanProcessor) *OTelHook {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(defaults.Version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &OTelHook{
		opts:           opts,
		tracerProvider: tp,
		tracer:         tp.Tracer(defaults.TracerName),
	}
}

// OnEvent records the event on the run span.
func (h *OTelHook) OnEvent(ctx context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	switch e := event.(type) {
	case *events.StartEvent:
		h.handleStart(ctx, e)
	case *events.CaseEvent:
		h.handleCase(e)
	case *events.SummaryEvent:
		h.handleSummary(e)
	case *events.CompleteEvent:
		h.handleComplete(e)
	}
	return nil
}

func (h *OTelHook) handleStart(ctx context.Context, start *events.StartEvent) {
	if h.rootSpan != nil {
		h.rootSpan.End()
	}
	_, h.rootSpan = h.tracer.Start(ctx, "tdgen.generate",
		trace.WithTimestamp(start.Timestamp()),
		trace.WithAttributes(
			attribute.String("run_id", start.RunID()),
			attribute.String("schema", start.Schema),
			attribute.String("rules", start.Rules),
			attribute.Int("fields", start.Fields),
			attribute.Int("rule_count", start.RuleCount),
			attribute.Int("expected_payloads", start.Expected),
			attribute.StringSlice("types", start.Types),
			attribute.StringSlice("plugins", start.Plugins),
		),
	)
}

func (h *OTelHook) handleCase(c *events.CaseEvent) {
	if h.rootSpan == nil {
		return
	}
	h.rootSpan.AddEvent("payload", trace.WithAttributes(
		attribute.Int("index", c.Index),
		attribute.String("id", c.Case.ID),
		attribute.String("field", c.Case.Field),
		attribute.String("type", string(c.Case.Type)),
		attribute.String("rule", string(c.Case.Rule)),
	))
}

func (h *OTelHook) handleSummary(s *events.SummaryEvent) {
	if h.rootSpan == nil {
		return
	}
	h.rootSpan.SetAttributes(
		attribute.Int("totals.payloads", s.Total),
		attribute.Int("totals.invalid", s.Invalid),
		attribute.Int("totals.valid", s.Valid),
		attribute.Int64("duration_ms", s.DurationMs),
		attribute.String("output", s.Output),
	)
}

func (h *OTelHook) handleComplete(c *events.CompleteEvent) {
	if h.rootSpan == nil {
		return
	}
	h.rootSpan.SetAttributes(attribute.Int("exit_code", c.ExitCode))
	if c.Success {
		h.rootSpan.SetStatus(codes.Ok, "")
	} else {
		h.rootSpan.SetStatus(codes.Error, c.ExitReason)
	}
	h.rootSpan.End(trace.WithTimestamp(c.Timestamp()))
	h.rootSpan = nil
}

// EventTypes returns the event types this hook handles.
func (h *OTelHook) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeStart,
		events.EventTypeCase,
		events.EventTypeSummary,
		events.EventTypeComplete,
	}
}

// Close ends any open span and flushes the tracer provider.
func (h *OTelHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.rootSpan != nil {
		h.rootSpan.SetStatus(codes.Error, "run interrupted")
		h.rootSpan.End()
		h.rootSpan = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.opts.ShutdownTimeout)
	defer cancel()
	if err := h.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("otel: shutdown tracer provider: %w", err)
	}
	return nil
}

// Endpoint returns the OTLP endpoint being used.
func (h *OTelHook) Endpoint() string { return h.opts.Endpoint }

// ServiceName returns the service name being used.
func (h *OTelHook) ServiceName() string { return h.opts.ServiceName }
