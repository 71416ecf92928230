// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.TelemetryShutdown)
//
// DO NOT use hardcoded time.Duration values like `5 * time.Second` anywhere.
// Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// TELEMETRY
// ============================================================================
//
// Exporters are flushed once per run, so these bound how long a CLI
// invocation may block on an unreachable collector.
// ============================================================================

const (
	// TelemetryConnect bounds creation of the OTLP exporter (5s)
	TelemetryConnect = 5 * time.Second

	// TelemetryShutdown bounds the final span flush (5s)
	TelemetryShutdown = 5 * time.Second

	// TelemetryBatch is the span batch timeout (1s)
	TelemetryBatch = 1 * time.Second
)

// ============================================================================
// GENERATION
// ============================================================================

const (
	// GenerateTimeout bounds one generate call from the MCP server (30s)
	GenerateTimeout = 30 * time.Second

	// ScriptTimeout bounds one plugin generator invocation (2s)
	ScriptTimeout = 2 * time.Second
)
