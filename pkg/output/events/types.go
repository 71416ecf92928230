// Package events defines the event types emitted during a generation run.
// All events are designed for JSON serialization and CI/CD integration.
//
// The BaseEvent struct is embedded in every concrete event type
// (StartEvent, CaseEvent, SummaryEvent, CompleteEvent).
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of output event.
type EventType string

const (
	// EventTypeStart indicates a run has started.
	EventTypeStart EventType = "start"
	// EventTypeCase indicates one generated payload.
	EventTypeCase EventType = "case"
	// EventTypeSummary carries run totals.
	EventTypeSummary EventType = "summary"
	// EventTypeComplete indicates a run has finished, successfully or not.
	EventTypeComplete EventType = "complete"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
	RunID() string
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	Type EventType `json:"type"`
	Time time.Time `json:"timestamp"`
	Run  string    `json:"run_id"`
}

// NewBase stamps a BaseEvent with the current time.
func NewBase(t EventType, runID string) BaseEvent {
	return BaseEvent{Type: t, Time: time.Now(), Run: runID}
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.New().String() }

// EventType returns the type of this event.
func (e BaseEvent) EventType() EventType { return e.Type }

// Timestamp returns when this event occurred.
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// RunID returns the identifier of the run that produced this event.
func (e BaseEvent) RunID() string { return e.Run }
