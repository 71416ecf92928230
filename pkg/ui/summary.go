package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Count is one row of a summary breakdown.
type Count struct {
	Name  string
	Count int
}

// Summary is what PrintSummary renders after a run.
type Summary struct {
	Total    int
	Invalid  int
	Valid    int
	ByRule   []Count
	ByField  []Count
	Duration time.Duration
	Output   string
}

// RuleLabel turns a rule name into a heading: "shorter_than_min" becomes
// "Shorter Than Min".
func RuleLabel(rule string) string {
	return titleCaser.String(strings.ReplaceAll(rule, "_", " "))
}

// PrintSummary prints the per-rule and per-field breakdown of a run.
func PrintSummary(s Summary) {
	if IsSilent() {
		return
	}
	w := writer()

	PrintSection("Generation Summary")

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", StatLabelStyle.Render(fmt.Sprintf("%-26s", label)), value)
	}

	row("Payloads:", StatValueStyle.Render(strconv.Itoa(s.Total)))
	row("Invalid:", StatValueStyle.Render(strconv.Itoa(s.Invalid)))
	if s.Valid > 0 {
		row("Valid baseline:", SuccessStyle.Render(strconv.Itoa(s.Valid)))
	}
	row("Duration:", StatValueStyle.Render(formatDuration(s.Duration)))

	if len(s.ByRule) > 0 {
		PrintSection("By Rule")
		for _, c := range s.ByRule {
			row(RuleLabel(c.Name)+":", RuleKindStyle(c.Name).Render(strconv.Itoa(c.Count)))
		}
	}
	if len(s.ByField) > 0 {
		PrintSection("By Field")
		for _, c := range s.ByField {
			row(c.Name+":", StatValueStyle.Render(strconv.Itoa(c.Count)))
		}
	}

	if s.Output != "" {
		fmt.Fprintln(w)
		row("Output:", PathStyle.Render(s.Output))
	}
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
