package events

import (
	"time"

	"github.com/waftester/tdgen/pkg/payloadgen"
)

// SummaryEvent is emitted after the last CaseEvent.
type SummaryEvent struct {
	BaseEvent
	Total      int           `json:"total"`
	Invalid    int           `json:"invalid"`
	Valid      int           `json:"valid"`
	ByRule     []Count       `json:"by_rule"`
	ByField    []Count       `json:"by_field"`
	ByType     []Count       `json:"by_type"`
	DurationMs int64         `json:"duration_ms"`
	Duration   time.Duration `json:"-"`
	Output     string        `json:"output,omitempty"`
}

// Count is one labelled tally. Slices of Count keep first-seen order,
// which a map would lose.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewSummaryEvent tallies res. output is the destination the payloads were
// written to, if any.
func NewSummaryEvent(runID string, res *payloadgen.Result, elapsed time.Duration, output string) *SummaryEvent {
	e := &SummaryEvent{
		BaseEvent:  NewBase(EventTypeSummary, runID),
		Total:      len(res.Cases()),
		Invalid:    len(res.Invalid),
		DurationMs: elapsed.Milliseconds(),
		Duration:   elapsed,
		Output:     output,
	}
	if res.IncludeValid {
		e.Valid = 1
	}

	order, byRule := res.CountByRule()
	for _, r := range order {
		e.ByRule = append(e.ByRule, Count{Name: string(r), Count: byRule[r]})
	}
	fields, byField := res.CountByField()
	for _, f := range fields {
		e.ByField = append(e.ByField, Count{Name: f, Count: byField[f]})
	}

	typeIdx := map[string]int{}
	for _, c := range res.Invalid {
		name := string(c.Type)
		i, ok := typeIdx[name]
		if !ok {
			i = len(e.ByType)
			typeIdx[name] = i
			e.ByType = append(e.ByType, Count{Name: name})
		}
		e.ByType[i].Count++
	}
	return e
}
