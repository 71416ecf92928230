// Package writers provides output writers for the generated payloads.
//
// Every writer buffers or streams CaseEvents into an io.Writer. Pair them
// with an AtomicFile so the artifact appears only once the run succeeded.
package writers

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Writer = (*JSONWriter)(nil)

// JSONWriter writes payloads as a single JSON array.
// It buffers all cases in memory and writes the array when Close is
// called, so the output is a complete document or nothing.
type JSONWriter struct {
	w       io.Writer
	mu      sync.Mutex
	opts    JSONOptions
	cases   []*events.CaseEvent
	aborted bool
}

// JSONOptions configures the JSON writer behavior.
type JSONOptions struct {
	// IndentSize sets the number of spaces for indentation (default 2).
	IndentSize int

	// Compact disables indentation.
	Compact bool

	// WithMeta emits {id, field, type, rule, payload} objects instead of
	// bare payloads.
	WithMeta bool
}

// NewJSONWriter creates a new JSON array writer that writes to w.
// The writer is safe for concurrent use.
func NewJSONWriter(w io.Writer, opts JSONOptions) *JSONWriter {
	if opts.IndentSize == 0 {
		opts.IndentSize = 2
	}
	return &JSONWriter{w: w, opts: opts}
}

// Write buffers a case event for later array output.
func (jw *JSONWriter) Write(event events.Event) error {
	ce, ok := event.(*events.CaseEvent)
	if !ok {
		return nil
	}
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.cases = append(jw.cases, ce)
	return nil
}

// Flush is a no-op for JSON writer.
// All cases are written as a single array on Close.
func (jw *JSONWriter) Flush() error {
	return nil
}

// Close writes all buffered cases as a JSON array and closes the
// destination if it implements io.Closer.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.aborted {
		return errAborted
	}

	var items any
	if jw.opts.WithMeta {
		cs := make([]any, len(jw.cases))
		for i, ce := range jw.cases {
			cs[i] = ce.Case
		}
		items = cs
	} else {
		items = casePayloads(jw.cases)
	}

	var (
		data []byte
		err  error
	)
	if jw.opts.Compact {
		data, err = jsonutil.Marshal(items)
	} else {
		data, err = jsonutil.MarshalIndent(items, "", strings.Repeat(" ", jw.opts.IndentSize))
	}
	if err != nil {
		abortDest(jw.w)
		return fmt.Errorf("json: encode: %w", err)
	}

	if _, err := jw.w.Write(data); err != nil {
		abortDest(jw.w)
		return fmt.Errorf("json: write: %w", err)
	}
	return closeDest(jw.w)
}

// Abort drops the buffered cases and the destination's pending output.
func (jw *JSONWriter) Abort() {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	jw.aborted = true
	jw.cases = nil
	abortDest(jw.w)
}

// SupportsEvent returns true for case events only.
func (jw *JSONWriter) SupportsEvent(eventType events.EventType) bool {
	return eventType == events.EventTypeCase
}

func casePayloads(cs []*events.CaseEvent) []any {
	out := make([]any, len(cs))
	for i, ce := range cs {
		out[i] = ce.Case.Payload
	}
	return out
}
