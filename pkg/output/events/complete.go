package events

import "fmt"

// CompleteEvent is the last event of a generation run. A successful run
// carries its summary; a failed one carries the classified exit code and the
// error text.
type CompleteEvent struct {
	BaseEvent
	Success    bool          `json:"success"`
	ExitCode   int           `json:"exit_code"`
	ExitReason string        `json:"exit_reason"`
	Summary    *SummaryEvent `json:"summary,omitempty"`
}

// NewCompleteEvent reports a run that wrote every payload in summary.
func NewCompleteEvent(runID string, summary *SummaryEvent) *CompleteEvent {
	return &CompleteEvent{
		BaseEvent:  NewBase(EventTypeComplete, runID),
		Success:    true,
		ExitReason: fmt.Sprintf("%d payloads generated", summary.Total),
		Summary:    summary,
	}
}

// NewFailedEvent reports a run that stopped on err with the given exit code.
func NewFailedEvent(runID string, code int, err error) *CompleteEvent {
	return &CompleteEvent{
		BaseEvent:  NewBase(EventTypeComplete, runID),
		ExitCode:   code,
		ExitReason: err.Error(),
	}
}
