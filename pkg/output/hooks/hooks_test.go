package hooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waftester/tdgen/pkg/output/events"
	"github.com/waftester/tdgen/pkg/payloadgen"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
)

const testRunID = "3f1c2a9e-0000-4000-8000-000000000001"

// runEvents returns the full event stream of a small login-form run.
func runEvents(t *testing.T, success bool) []events.Event {
	t.Helper()
	sc, err := schema.Parse([]byte(`{"email":{"type":"email"},"password":{"type":"string","min_length":8}}`))
	require.NoError(t, err)
	tbl, err := rules.Parse([]byte(`{"email":["empty","missing"],"string":["shorter_than_min","empty"]}`))
	require.NoError(t, err)
	res, err := payloadgen.NewBuilder(nil, payloadgen.Options{IncludeValid: true}).BuildCases(sc, tbl)
	require.NoError(t, err)

	evs := []events.Event{&events.StartEvent{
		BaseEvent: events.NewBase(events.EventTypeStart, testRunID),
		Schema:    "schema.json",
		Rules:     "rules.json",
		Fields:    sc.Len(),
		RuleCount: tbl.Total(),
		Types:     []string{"email", "string"},
		Expected:  len(res.Cases()),
	}}
	for i, c := range res.Cases() {
		evs = append(evs, events.NewCaseEvent(testRunID, i, c))
	}
	summary := events.NewSummaryEvent(testRunID, res, 250*time.Millisecond, "out.json")
	complete := &events.CompleteEvent{
		BaseEvent: events.NewBase(events.EventTypeComplete, testRunID),
		Success:   success,
		Summary:   summary,
	}
	if !success {
		complete.ExitCode = 3
		complete.ExitReason = "write out.json: permission denied"
	}
	return append(evs, summary, complete)
}

type eventHook interface {
	OnEvent(ctx context.Context, event events.Event) error
}

func feed(t *testing.T, h eventHook, evs []events.Event) {
	t.Helper()
	for _, e := range evs {
		require.NoError(t, h.OnEvent(context.Background(), e))
	}
}
