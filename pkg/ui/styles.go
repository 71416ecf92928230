package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Primary   = lipgloss.Color("#7D56F4")
	Secondary = lipgloss.Color("#00D4AA")

	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
	Bright  = lipgloss.Color("#FAFAFA")
)

// Pre-configured styles
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(Bright).
			Bold(true).
			MarginTop(1)

	ConfigLabelStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Width(15)

	ConfigValueStyle = lipgloss.NewStyle().
				Foreground(Bright)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	StatValueStyle = lipgloss.NewStyle().
			Foreground(Bright).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)

	PathStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Underline(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Primary)

	// Rule badge
	RuleStyle = lipgloss.NewStyle().
			Foreground(Bright).
			Background(lipgloss.Color("#3B3B4F")).
			Padding(0, 1)
)

// RuleKindStyle colours a rule by what it does to the payload: structural
// rules (missing, null) in warning, the valid baseline in success, the rest
// in the default badge.
func RuleKindStyle(rule string) lipgloss.Style {
	switch {
	case rule == "valid":
		return SuccessStyle
	case rule == "missing" || rule == "null":
		return WarningStyle
	case strings.HasPrefix(rule, "wrong_"):
		return ErrorStyle
	default:
		return StatValueStyle
	}
}
