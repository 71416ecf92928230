package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*PrometheusHook)(nil)

// PrometheusHook records generation metrics in a private registry and writes
// them on Close in the node-exporter textfile format, so batch runs in CI can
// be collected without a scrape endpoint.
type PrometheusHook struct {
	registry *prometheus.Registry
	opts     PrometheusOptions

	payloadsTotal   *prometheus.CounterVec
	fieldsTotal     prometheus.Gauge
	durationSeconds prometheus.Gauge
	lastRunSuccess  prometheus.Gauge

	mu     sync.Mutex
	closed bool
}

// PrometheusOptions configures the Prometheus hook behavior.
type PrometheusOptions struct {
	// Path of the textfile written on Close. Empty keeps metrics in memory only.
	Path string

	// Namespace prefixes every metric name (default: "tdgen").
	Namespace string
}

// NewPrometheusHook creates a hook with its own registry.
func NewPrometheusHook(opts PrometheusOptions) (*PrometheusHook, error) {
	if opts.Namespace == "" {
		opts.Namespace = defaults.MetricsNamespace
	}

	hook := &PrometheusHook{
		registry: prometheus.NewRegistry(),
		opts:     opts,
	}
	if err := hook.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return hook, nil
}

// initMetrics creates and registers all metrics.
func (h *PrometheusHook) initMetrics() error {
	h.payloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: h.opts.Namespace,
			Name:      "payloads_total",
			Help:      "Number of payloads generated, by field type and rule",
		},
		[]string{"type", "rule"},
	)

	h.fieldsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: h.opts.Namespace,
		Name:      "fields_total",
		Help:      "Number of fields in the loaded schema",
	})

	h.durationSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: h.opts.Namespace,
		Name:      "generation_duration_seconds",
		Help:      "Wall time of the last generation run",
	})

	h.lastRunSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: h.opts.Namespace,
		Name:      "last_run_success",
		Help:      "1 if the last run wrote its artifact, 0 otherwise",
	})

	collectors := []prometheus.Collector{
		h.payloadsTotal,
		h.fieldsTotal,
		h.durationSeconds,
		h.lastRunSuccess,
	}
	for _, c := range collectors {
		if err := h.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// OnEvent updates the metrics for the event.
func (h *PrometheusHook) OnEvent(_ context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	switch e := event.(type) {
	case *events.StartEvent:
		h.fieldsTotal.Set(float64(e.Fields))
	case *events.CaseEvent:
		h.payloadsTotal.WithLabelValues(string(e.Case.Type), string(e.Case.Rule)).Inc()
	case *events.SummaryEvent:
		h.durationSeconds.Set(e.Duration.Seconds())
	case *events.CompleteEvent:
		if e.Success {
			h.lastRunSuccess.Set(1)
		} else {
			h.lastRunSuccess.Set(0)
		}
	}
	return nil
}

// EventTypes returns the event types this hook handles.
func (h *PrometheusHook) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeStart,
		events.EventTypeCase,
		events.EventTypeSummary,
		events.EventTypeComplete,
	}
}

// Registry exposes the hook's registry.
func (h *PrometheusHook) Registry() *prometheus.Registry {
	return h.registry
}

// Close writes the textfile if a path was configured. Later calls are no-ops.
func (h *PrometheusHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.opts.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.opts.Path), defaults.DirPerm); err != nil {
		return fmt.Errorf("prometheus: create dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(h.opts.Path, h.registry); err != nil {
		return fmt.Errorf("prometheus: write textfile: %w", err)
	}
	return nil
}
