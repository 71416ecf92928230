// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all runtime configuration defaults.
//
// Usage:
//
//	cfg.OutPath = defaults.OutPath
//	cfg.Format = defaults.FormatJSON
//
// DO NOT hardcode paths, formats or limits anywhere else.
// Reference the appropriate constant from this package instead.
package defaults

// Version is the current tdgen version
const Version = "1.2.0"

// ToolName is the binary and service name used in banners, telemetry and MCP.
const ToolName = "tdgen"

// ============================================================================
// FILE LOCATIONS
// ============================================================================
//
// Relative paths are resolved against the working directory.
// ============================================================================

const (
	// OutPath is where generated payloads land when -out is not given
	OutPath = "output/payload.json"

	// RulesPath is probed for a rule table when -rules is not given
	RulesPath = "schemas/invalid_rules.json"

	// StdoutPath selects standard output instead of a file
	StdoutPath = "-"

	// PluginExt is the file extension of generator scripts
	PluginExt = ".tengo"
)

// ============================================================================
// OUTPUT FORMATS
// ============================================================================

const (
	// FormatJSON writes a single indented JSON array (default)
	FormatJSON = "json"

	// FormatJSONL writes one payload per line
	FormatJSONL = "jsonl"

	// FormatTemplate renders payloads through a text/template
	FormatTemplate = "template"

	// JSONIndent is the indentation used for JSON output (2 spaces)
	JSONIndent = "  "
)

// Formats lists every accepted -format value.
var Formats = []string{FormatJSON, FormatJSONL, FormatTemplate}

// ============================================================================
// FILE MODES
// ============================================================================

const (
	// DirPerm is used when creating output directories
	DirPerm = 0o755

	// FilePerm is used for output and metrics files
	FilePerm = 0o644
)

// ============================================================================
// SCRIPT LIMITS
// ============================================================================

const (
	// ScriptMaxAllocs caps object allocations per plugin script run
	ScriptMaxAllocs = 10_000_000

	// ScriptMaxFileSize rejects plugin files larger than 1 MiB
	ScriptMaxFileSize = 1 << 20
)

// ============================================================================
// SCHEMA LIMITS
// ============================================================================

const (
	// MaxLengthConstraint bounds min_length and max_length so generated
	// strings stay within 1 MiB
	MaxLengthConstraint = 1 << 20
)

// ============================================================================
// TELEMETRY
// ============================================================================

const (
	// MetricsNamespace prefixes every exported Prometheus metric
	MetricsNamespace = "tdgen"

	// TracerName identifies spans emitted by the OTel hook
	TracerName = "github.com/waftester/tdgen"
)
