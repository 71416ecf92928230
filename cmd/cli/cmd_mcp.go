package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/waftester/tdgen/pkg/mcpserver"
)

// runMCP serves the MCP tools over stdio. Logs go to stderr because stdout
// carries the protocol.
func runMCP(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pluginDir := fs.String("plugins", "", "Directory of generator plugins to expose")
	verbose := fs.Bool("v", false, "Verbose logging")
	logJSON := fs.Bool("log-json", false, "Log as JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	logger := newLogger(stderr, logOptions{Verbose: *verbose, JSON: *logJSON})

	syn, scripts, err := loadSynth(*pluginDir, logger)
	if err != nil {
		return err
	}
	in := &inputs{Plugins: scripts}

	srv := mcpserver.New(&mcpserver.Config{
		Synth:   syn,
		Plugins: in.PluginLabels(),
		Logger:  logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("mcp server starting", slog.String("transport", "stdio"), slog.Int("plugins", len(scripts)))
	if err := srv.RunStdio(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
