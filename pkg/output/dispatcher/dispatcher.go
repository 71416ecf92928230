// Package dispatcher provides the central event routing for output.
// It receives events from a generation run and routes them to registered
// writers and hooks. Writers produce the payload artifact (JSON, JSONL,
// template output), while hooks handle side channels (logging, metrics,
// tracing).
//
// Writer failures are returned to the caller because a missing artifact must
// never go unnoticed. Hook failures are logged and swallowed so telemetry
// problems never fail a run.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/waftester/tdgen/pkg/output/events"
)

// Writer is the interface for all output writers.
type Writer interface {
	// Write writes an event to the output.
	Write(event events.Event) error

	// Flush ensures all buffered events are written.
	Flush() error

	// Close finalizes the output and releases any resources.
	Close() error

	// SupportsEvent returns true if the writer handles this event type.
	SupportsEvent(eventType events.EventType) bool
}

// Hook is the interface for event hooks.
type Hook interface {
	// OnEvent is called for each matching event.
	OnEvent(ctx context.Context, event events.Event) error

	// EventTypes returns the event types this hook handles.
	// Return nil or empty slice to receive all events.
	EventTypes() []events.EventType
}

// Config configures the dispatcher behavior.
type Config struct {
	// Logger receives hook failures. Nil uses slog.Default().
	Logger *slog.Logger
}

// Dispatcher routes events to writers and hooks.
// It is safe for concurrent use.
type Dispatcher struct {
	mu      sync.RWMutex
	writers []Writer
	hooks   []Hook
	closed  bool
	logger  *slog.Logger
}

// New creates a new event dispatcher with the given configuration.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// RegisterWriter adds a writer to the dispatcher.
func (d *Dispatcher) RegisterWriter(w Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writers = append(d.writers, w)
}

// RegisterHook adds a hook to the dispatcher.
func (d *Dispatcher) RegisterHook(h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
}

// Dispatch sends an event to all registered writers and hooks. Every
// consumer sees the event even if an earlier one fails; the returned error
// joins all writer failures.
func (d *Dispatcher) Dispatch(ctx context.Context, event events.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	var errs []error
	for _, w := range d.writers {
		if !w.SupportsEvent(event.EventType()) {
			continue
		}
		if err := w.Write(event); err != nil {
			errs = append(errs, fmt.Errorf("dispatcher: write %s event: %w", event.EventType(), err))
		}
	}

	for _, h := range d.hooks {
		if !hookSupportsEvent(h, event.EventType()) {
			continue
		}
		if err := h.OnEvent(ctx, event); err != nil {
			d.logger.Warn("hook failed",
				slog.String("hook", fmt.Sprintf("%T", h)),
				slog.String("event", string(event.EventType())),
				slog.String("error", err.Error()),
			)
		}
	}

	return errors.Join(errs...)
}

func hookSupportsEvent(h Hook, eventType events.EventType) bool {
	types := h.EventTypes()
	return len(types) == 0 || slices.Contains(types, eventType)
}

// Flush flushes all registered writers.
func (d *Dispatcher) Flush() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var errs []error
	for _, w := range d.writers {
		if err := w.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes and closes all writers, then closes every hook that has a
// Close method. Only writer errors are returned. Calling Close twice is a
// no-op.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, w := range d.writers {
		if err := w.Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, h := range d.hooks {
		c, ok := h.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			d.logger.Warn("hook close failed",
				slog.String("hook", fmt.Sprintf("%T", h)),
				slog.String("error", err.Error()),
			)
		}
	}

	return errors.Join(errs...)
}

// Abort discards all writer output and closes hooks. Writers that
// implement Abort drop their buffered output instead of committing it.
func (d *Dispatcher) Abort() {
	d.mu.Lock()
	for _, w := range d.writers {
		if a, ok := w.(interface{ Abort() }); ok {
			a.Abort()
		}
	}
	d.mu.Unlock()
	_ = d.Close()
}
