package events

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/payloadgen"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
)

func loginResult(t *testing.T, includeValid bool) *payloadgen.Result {
	t.Helper()
	sc, err := schema.Parse([]byte(`{"email":{"type":"email"},"password":{"type":"string","min_length":8}}`))
	require.NoError(t, err)
	tbl, err := rules.Parse([]byte(`{"email":["empty","missing"],"string":["shorter_than_min","empty"]}`))
	require.NoError(t, err)
	res, err := payloadgen.NewBuilder(nil, payloadgen.Options{IncludeValid: includeValid}).BuildCases(sc, tbl)
	require.NoError(t, err)
	return res
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestBaseEvent(t *testing.T) {
	before := time.Now()
	b := NewBase(EventTypeStart, "run-1")
	assert.Equal(t, EventTypeStart, b.EventType())
	assert.Equal(t, "run-1", b.RunID())
	assert.False(t, b.Timestamp().Before(before))
}

func TestEventsImplementInterface(t *testing.T) {
	var _ Event = &StartEvent{}
	var _ Event = &CaseEvent{}
	var _ Event = &SummaryEvent{}
	var _ Event = &CompleteEvent{}
}

func TestCaseEventJSON(t *testing.T) {
	res := loginResult(t, false)
	e := NewCaseEvent("r", 1, res.Invalid[1])

	b, err := jsonutil.Marshal(e)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"type":"case"`)
	assert.Contains(t, s, `"run_id":"r"`)
	assert.Contains(t, s, `"index":1`)
	assert.Contains(t, s, `"rule":"missing"`)
	assert.Contains(t, s, `"payload":{"password":"aaaaaaaa"}`)
}

func TestNewSummaryEvent(t *testing.T) {
	res := loginResult(t, true)
	e := NewSummaryEvent("r", res, 1500*time.Millisecond, "out.json")

	assert.Equal(t, EventTypeSummary, e.EventType())
	assert.Equal(t, 5, e.Total)
	assert.Equal(t, 4, e.Invalid)
	assert.Equal(t, 1, e.Valid)
	assert.EqualValues(t, 1500, e.DurationMs)
	assert.Equal(t, "out.json", e.Output)

	assert.Equal(t, []Count{{"empty", 2}, {"missing", 1}, {"shorter_than_min", 1}}, e.ByRule)
	assert.Equal(t, []Count{{"email", 2}, {"password", 2}}, e.ByField)
	assert.Equal(t, []Count{{"email", 2}, {"string", 2}}, e.ByType)
}

func TestCompleteEventJSON(t *testing.T) {
	e := NewFailedEvent("r", 1, errors.New("unsupported rule"))
	assert.False(t, e.Success)
	assert.Equal(t, EventTypeComplete, e.EventType())
	assert.Equal(t, "unsupported rule", e.ExitReason)

	b, err := jsonutil.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"exit_code":1`)
	assert.NotContains(t, string(b), `"summary"`)
}

func TestNewCompleteEvent(t *testing.T) {
	res := loginResult(t, false)
	summary := NewSummaryEvent("r", res, 0, "out.json")
	e := NewCompleteEvent("r", summary)

	assert.True(t, e.Success)
	assert.Zero(t, e.ExitCode)
	assert.Equal(t, fmt.Sprintf("%d payloads generated", summary.Total), e.ExitReason)
	assert.Same(t, summary, e.Summary)
}
