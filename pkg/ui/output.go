// Package ui renders human-facing progress and summaries on stderr.
// Stdout is reserved for the payload artifact when writing to "-".
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/waftester/tdgen/pkg/defaults"
)

// Global UI state
var (
	out         io.Writer = os.Stderr
	silentMode  bool
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetOutput redirects all UI output. Nil restores os.Stderr.
func SetOutput(w io.Writer) {
	uiMu.Lock()
	defer uiMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

func writer() io.Writer {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return out
}

// SetSilent enables or disables silent mode. Errors are still printed.
func SetSilent(silent bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	silentMode = silent
}

// IsSilent returns whether silent mode is enabled
func IsSilent() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return silentMode
}

// SetNoColor disables colored output
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())
	}
}

// IsNoColor returns whether color is disabled
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

// PrintBanner prints the one-line tool banner.
func PrintBanner() {
	if IsSilent() {
		return
	}
	fmt.Fprintf(writer(), "%s %s\n", BannerStyle.Render(defaults.ToolName), VersionStyle.Render("v"+defaults.Version))
}

// Option is one labelled line of PrintConfig.
type Option struct {
	Name  string
	Value string
}

// PrintConfig prints the run configuration in the given order, skipping
// empty values.
func PrintConfig(opts ...Option) {
	if IsSilent() {
		return
	}
	w := writer()
	for _, o := range opts {
		if o.Value == "" {
			continue
		}
		fmt.Fprintf(w, " :: %-20s : %s\n", ConfigLabelStyle.Render(o.Name), ConfigValueStyle.Render(o.Value))
	}
}

// PrintDivider prints a stylized divider
func PrintDivider() {
	if IsSilent() {
		return
	}
	fmt.Fprintln(writer(), DividerStyle.Render(strings.Repeat("-", 60)))
}

// PrintSection prints a section header
func PrintSection(title string) {
	if IsSilent() {
		return
	}
	w := writer()
	fmt.Fprintln(w)
	fmt.Fprintln(w, SectionStyle.Render("> "+title))
	PrintDivider()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(writer(), SuccessStyle.Render(Icon("✔", "[+]")+" "+message))
}

// PrintError prints an error message. Silent mode does not suppress it.
func PrintError(message string) {
	fmt.Fprintln(writer(), ErrorStyle.Render(Icon("✖", "[X]")+" "+message))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintln(writer(), WarningStyle.Render("[!] "+message))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if IsSilent() {
		return
	}
	fmt.Fprintf(writer(), "%s %s\n", InfoStyle.Render("*"), message)
}
