// Command tdgen generates negative test payloads from a field schema and a
// table of invalid-value rules.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit code.
// Flags without a subcommand select generate.
func run(args []string, stdout, stderr io.Writer) int {
	ui.SetOutput(stderr)
	applyTerminal(false, false)

	if len(args) == 0 {
		printUsage(stderr)
		return defaults.ExitUserError
	}

	cmd, rest := "generate", args
	if !strings.HasPrefix(args[0], "-") {
		cmd, rest = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "generate", "gen":
		err = runGenerate(rest, stdout, stderr)
	case "validate":
		err = runValidate(rest, stderr)
	case "rules":
		err = runRules(rest, stdout, stderr)
	case "mcp":
		err = runMCP(rest, stderr)
	case "presets":
		err = runPresets(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "%s %s\n", defaults.ToolName, defaults.Version)
		return defaults.ExitSuccess
	case "help":
		printUsage(stderr)
		return defaults.ExitSuccess
	default:
		ui.PrintError(fmt.Sprintf("unknown command %q", cmd))
		printUsage(stderr)
		return defaults.ExitUserError
	}
	return report(err)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%[1]s %[2]s: negative test data generator

Usage:
  %[1]s [generate] -schema FILE [-rules FILE] [-out FILE|-] [-format json|jsonl|template]
                 [-template FILE | -template-builtin curl|pytest] [-include-valid]
                 [-plugins DIR] [-config FILE] [-metrics-file FILE]
                 [-otel-endpoint HOST:PORT] [-v] [-silent] [-no-color] [-log-json]
  %[1]s validate -schema FILE [-rules FILE] [-plugins DIR]
  %[1]s rules    [-plugins DIR] [-type TYPE] [-json] [-default]
  %[1]s mcp      [-plugins DIR] [-v] [-log-json]
  %[1]s presets  [NAME]
  %[1]s version

Run '%[1]s <command> -h' for the flags of a command.
`, defaults.ToolName, defaults.Version)
}

// logOptions selects the slog handler for a command.
type logOptions struct {
	Verbose bool
	Silent  bool
	JSON    bool
}

// newLogger builds the command's logger. Logs go to w, which is stderr so
// that stdout can carry the payload artifact.
func newLogger(w io.Writer, opts logOptions) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.Verbose:
		level = slog.LevelDebug
	case opts.Silent:
		level = slog.LevelError
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// applyTerminal configures pkg/ui for a command. Colour is also off when
// stderr is not a terminal or NO_COLOR is set.
func applyTerminal(silent, noColor bool) {
	ui.SetSilent(silent)
	ui.SetNoColor(noColor || !ui.ColorWanted())
}
