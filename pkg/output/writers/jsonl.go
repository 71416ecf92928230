package writers

import (
	"fmt"
	"io"
	"sync"

	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*JSONLWriter)(nil)

// JSONLWriter writes one payload per line (newline-delimited JSON).
// Each line can be parsed on its own, which suits streaming consumers
// and tools like jq.
type JSONLWriter struct {
	w       io.Writer
	mu      sync.Mutex
	opts    JSONLOptions
	encoder *jsonutil.Encoder
	aborted bool
}

// JSONLOptions configures the JSONL writer behavior.
type JSONLOptions struct {
	// WithMeta emits {id, field, type, rule, payload} objects instead of
	// bare payloads.
	WithMeta bool
}

// NewJSONLWriter creates a new JSONL writer that writes to w.
// The writer is safe for concurrent use.
func NewJSONLWriter(w io.Writer, opts JSONLOptions) *JSONLWriter {
	return &JSONLWriter{
		w:       w,
		opts:    opts,
		encoder: jsonutil.NewStreamEncoder(w),
	}
}

// Write writes a case event as a single JSON line.
func (jw *JSONLWriter) Write(event events.Event) error {
	ce, ok := event.(*events.CaseEvent)
	if !ok {
		return nil
	}

	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.aborted {
		return errAborted
	}

	var v any = ce.Case.Payload
	if jw.opts.WithMeta {
		v = ce.Case
	}
	if err := jw.encoder.Encode(v); err != nil {
		return fmt.Errorf("jsonl: encode case %d: %w", ce.Index, err)
	}
	return nil
}

// Flush flushes the destination if it buffers.
func (jw *JSONLWriter) Flush() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	if f, ok := jw.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the destination if it implements io.Closer.
func (jw *JSONLWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	if jw.aborted {
		return errAborted
	}
	return closeDest(jw.w)
}

// Abort discards the destination's pending output.
func (jw *JSONLWriter) Abort() {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.aborted = true
	abortDest(jw.w)
}

// SupportsEvent returns true for case events only.
func (jw *JSONLWriter) SupportsEvent(eventType events.EventType) bool {
	return eventType == events.EventTypeCase
}
