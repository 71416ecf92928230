package events

import "github.com/waftester/tdgen/pkg/payloadgen"

// CaseEvent carries one generated payload. Writers serialize Case.Payload;
// hooks use the labels.
type CaseEvent struct {
	BaseEvent
	Index int             `json:"index"`
	Case  payloadgen.Case `json:"case"`
}

// NewCaseEvent wraps c as the index-th case of the run.
func NewCaseEvent(runID string, index int, c payloadgen.Case) *CaseEvent {
	return &CaseEvent{
		BaseEvent: NewBase(EventTypeCase, runID),
		Index:     index,
		Case:      c,
	}
}
