package hooks

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logRecorder captures slog records for assertions.
type logRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *logRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *logRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *logRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *logRecorder) WithGroup(string) slog.Handler       { return r }

func (r *logRecorder) messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, rec := range r.records {
		if rec.Level == level {
			out = append(out, rec.Message)
		}
	}
	return out
}

func TestOrDefault(t *testing.T) {
	assert.Same(t, slog.Default(), orDefault(nil))

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, custom, orDefault(custom))
}

func TestLoggerHook_SuccessfulRun(t *testing.T) {
	rec := &logRecorder{}
	h := NewLoggerHook(slog.New(rec))
	feed(t, h, runEvents(t, true))

	assert.Equal(t, []string{"generation started", "generation finished"}, rec.messages(slog.LevelInfo))
	assert.Len(t, rec.messages(slog.LevelDebug), 5)
	assert.Empty(t, rec.messages(slog.LevelError))
}

func TestLoggerHook_FailedRun(t *testing.T) {
	rec := &logRecorder{}
	h := NewLoggerHook(slog.New(rec))
	feed(t, h, runEvents(t, false))

	require.Equal(t, []string{"generation failed"}, rec.messages(slog.LevelError))

	var reason string
	for _, r := range rec.records {
		if r.Level != slog.LevelError {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "reason" {
				reason = a.Value.String()
			}
			return true
		})
	}
	assert.Contains(t, reason, "permission denied")
}

func TestLoggerHook_ReceivesAllEvents(t *testing.T) {
	assert.Nil(t, NewLoggerHook(nil).EventTypes())
}
