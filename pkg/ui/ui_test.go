package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// capture routes UI output into a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(nil)
		SetSilent(false)
	})
	return &buf
}

func TestRuleLabel(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{"empty", "Empty"},
		{"shorter_than_min", "Shorter Than Min"},
		{"leading_trailing_spaces", "Leading Trailing Spaces"},
		{"valid", "Valid"},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleLabel(tt.rule))
		})
	}
}

func TestPrintSummary(t *testing.T) {
	buf := capture(t)
	PrintSummary(Summary{
		Total:    5,
		Invalid:  4,
		Valid:    1,
		ByRule:   []Count{{"empty", 2}, {"shorter_than_min", 1}},
		ByField:  []Count{{"email", 2}, {"password", 2}},
		Duration: 1234 * time.Microsecond,
		Output:   "output/payload.json",
	})

	s := buf.String()
	assert.Contains(t, s, "Generation Summary")
	assert.Contains(t, s, "Shorter Than Min:")
	assert.Contains(t, s, "password:")
	assert.Contains(t, s, "1ms")
	assert.Contains(t, s, "output/payload.json")
	assert.NotContains(t, s, "\x1b[", "no-color output must not contain ANSI escapes")
}

func TestSilentSuppressesAllButErrors(t *testing.T) {
	buf := capture(t)
	SetSilent(true)

	PrintBanner()
	PrintInfo("info")
	PrintWarning("warn")
	PrintSuccess("ok")
	PrintSummary(Summary{Total: 1})
	assert.Empty(t, buf.String())

	PrintError("boom")
	assert.Contains(t, buf.String(), "boom")
}

func TestPrintConfigSkipsEmpty(t *testing.T) {
	buf := capture(t)
	PrintConfig(
		Option{Name: "Schema", Value: "schema.json"},
		Option{Name: "Plugins", Value: ""},
		Option{Name: "Format", Value: "json"},
	)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Schema")
	assert.Contains(t, lines[1], "json")
}

func TestMessagesUseASCIIIconsWhenPiped(t *testing.T) {
	if UnicodeTerminal() {
		t.Skip("stderr is a Unicode terminal")
	}
	buf := capture(t)
	PrintSuccess("saved")
	PrintError("failed")
	assert.Equal(t, "[+] saved\n[X] failed\n", buf.String())
}

func TestNoColorFlag(t *testing.T) {
	capture(t)
	assert.True(t, IsNoColor())
	SetNoColor(false)
	assert.False(t, IsNoColor())
	SetNoColor(true)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500µs", formatDuration(500*time.Microsecond))
	assert.Equal(t, "42ms", formatDuration(42300*time.Microsecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}
