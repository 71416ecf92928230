package hooks

import (
	"context"
	"log/slog"

	"github.com/waftester/tdgen/pkg/output/dispatcher"
	"github.com/waftester/tdgen/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*LoggerHook)(nil)

// LoggerHook writes one structured log line per event. Cases are logged at
// debug level so a normal run prints only the start and summary lines.
type LoggerHook struct {
	logger *slog.Logger
}

// NewLoggerHook returns a hook logging to l, or slog.Default() when l is nil.
func NewLoggerHook(l *slog.Logger) *LoggerHook {
	return &LoggerHook{logger: orDefault(l)}
}

// OnEvent logs the event.
func (h *LoggerHook) OnEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.StartEvent:
		h.logger.InfoContext(ctx, "generation started",
			slog.String("run_id", e.RunID()),
			slog.String("schema", e.Schema),
			slog.String("rules", e.Rules),
			slog.Int("fields", e.Fields),
			slog.Int("expected", e.Expected),
		)
	case *events.CaseEvent:
		h.logger.DebugContext(ctx, "payload generated",
			slog.Int("index", e.Index),
			slog.String("id", e.Case.ID),
			slog.String("label", e.Case.Label()),
		)
	case *events.SummaryEvent:
		h.logger.InfoContext(ctx, "generation finished",
			slog.String("run_id", e.RunID()),
			slog.Int("total", e.Total),
			slog.Int("invalid", e.Invalid),
			slog.Duration("duration", e.Duration),
			slog.String("output", e.Output),
		)
	case *events.CompleteEvent:
		if !e.Success {
			h.logger.ErrorContext(ctx, "generation failed",
				slog.String("run_id", e.RunID()),
				slog.Int("exit_code", e.ExitCode),
				slog.String("reason", e.ExitReason),
			)
		}
	}
	return nil
}

// EventTypes returns nil so the hook receives every event.
func (h *LoggerHook) EventTypes() []events.EventType { return nil }

// orDefault returns l if non-nil, otherwise slog.Default().
func orDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
