package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/tdgen/pkg/output/events"
)

func TestPrometheusHook_CountsPayloads(t *testing.T) {
	h, err := NewPrometheusHook(PrometheusOptions{})
	require.NoError(t, err)
	feed(t, h, runEvents(t, true))

	assert.Equal(t, 5, testutil.CollectAndCount(h.payloadsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.payloadsTotal.WithLabelValues("email", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.payloadsTotal.WithLabelValues("string", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.payloadsTotal.WithLabelValues("", "valid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.fieldsTotal))
	assert.Equal(t, 0.25, testutil.ToFloat64(h.durationSeconds))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.lastRunSuccess))
}

func TestPrometheusHook_FailedRun(t *testing.T) {
	h, err := NewPrometheusHook(PrometheusOptions{})
	require.NoError(t, err)
	feed(t, h, runEvents(t, false))
	assert.Equal(t, 0.0, testutil.ToFloat64(h.lastRunSuccess))
}

func TestPrometheusHook_WritesTextfileOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "tdgen.prom")
	h, err := NewPrometheusHook(PrometheusOptions{Path: path})
	require.NoError(t, err)
	feed(t, h, runEvents(t, true))

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "textfile must not exist before Close")

	require.NoError(t, h.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "# TYPE tdgen_payloads_total counter")
	assert.Contains(t, s, `tdgen_payloads_total{rule="missing",type="email"} 1`)
	assert.Contains(t, s, "tdgen_fields_total 2")
	assert.Contains(t, s, "tdgen_last_run_success 1")

	require.NoError(t, h.Close(), "second Close is a no-op")
}

func TestPrometheusHook_IgnoresEventsAfterClose(t *testing.T) {
	h, err := NewPrometheusHook(PrometheusOptions{})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	feed(t, h, runEvents(t, true))
	assert.Equal(t, 0, testutil.CollectAndCount(h.payloadsTotal))
}

func TestPrometheusHook_CustomNamespace(t *testing.T) {
	h, err := NewPrometheusHook(PrometheusOptions{Namespace: "ci"})
	require.NoError(t, err)
	feed(t, h, runEvents(t, true))

	mfs, err := h.Registry().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "ci_payloads_total")
	assert.Contains(t, names, "ci_generation_duration_seconds")
}

func TestPrometheusHook_EventTypes(t *testing.T) {
	h, err := NewPrometheusHook(PrometheusOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []events.EventType{
		events.EventTypeStart, events.EventTypeCase, events.EventTypeSummary, events.EventTypeComplete,
	}, h.EventTypes())
}
