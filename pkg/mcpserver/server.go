package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/synth"
)

// The SDK defines LoggingLevel as a bare string type.
const (
	logInfo    mcp.LoggingLevel = "info"
	logWarning mcp.LoggingLevel = "warning"
)

// Config holds MCP server configuration.
type Config struct {
	// Synth generates field values. Nil uses synth.New(); pass one with
	// plugins registered to expose them.
	Synth *synth.Synthesizer

	// Plugins lists the loaded plugin labels for tdgen://version.
	Plugins []string

	// Logger receives server lifecycle messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// Server wraps the MCP server with tdgen's tools.
type Server struct {
	mcp    *mcp.Server
	config *Config
	synth  *synth.Synthesizer
	logger *slog.Logger
}

// New creates a server with all tools, resources and prompts registered.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &Server{
		config: cfg,
		synth:  cfg.Synth,
		logger: cfg.Logger,
	}
	if s.synth == nil {
		s.synth = synth.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    defaults.ToolName,
			Title:   "tdgen negative test data generator",
			Version: defaults.Version,
		},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// MCPServer returns the underlying MCP server for direct access (e.g., testing).
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

// RunStdio serves over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio", slog.String("version", defaults.Version))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// ---------------------------------------------------------------------------
// Result builders
// ---------------------------------------------------------------------------

// logToSession sends a structured log message to the MCP client.
func logToSession(ctx context.Context, req *mcp.CallToolRequest, level mcp.LoggingLevel, data any) {
	if req.Session == nil {
		return
	}
	_ = req.Session.Log(ctx, &mcp.LoggingMessageParams{
		Level:  level,
		Logger: defaults.ToolName,
		Data:   data,
	})
}

// textResult creates a CallToolResult with a single text content block.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := jsonutil.MarshalIndent(v, "", defaults.JSONIndent)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult creates an IsError CallToolResult so the model can see the
// error and correct its input instead of getting a protocol error.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// boolPtr returns a pointer to b. Used for optional bool fields in the SDK.
func boolPtr(b bool) *bool { return &b }

// parseArgs unmarshals the raw JSON arguments from a tool call into dst.
func parseArgs(req *mcp.CallToolRequest, dst any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := jsonutil.Unmarshal(req.Params.Arguments, dst); err != nil {
		return fmt.Errorf("parsing tool arguments: %w", err)
	}
	return nil
}

// documentBytes accepts a schema or rule table either inline as a JSON
// object or as a string holding JSON or YAML text.
func documentBytes(v jsontext.Value) ([]byte, error) {
	switch v.Kind() {
	case '{':
		return v, nil
	case '"':
		var s string
		if err := jsonutil.Unmarshal(v, &s); err != nil {
			return nil, err
		}
		return []byte(s), nil
	case 0:
		return nil, fmt.Errorf("missing")
	default:
		return nil, fmt.Errorf("want an object or a JSON/YAML string, got %s", v.Kind())
	}
}

const serverInstructions = `You are connected to tdgen, a generator of negative test data for form and API validation.

Given a schema describing fields and their types, tdgen builds one valid baseline payload and then, for every field and every rule listed for that field's type, a payload identical to the baseline except that one field is broken (emptied, made too long, set to null, removed, and so on). Feed the payloads to the endpoint under test and expect each one to be rejected.

## Schema

A JSON object mapping field names to definitions, in the order the fields should appear:
  {"email": {"type": "email"}, "password": {"type": "string", "min_length": 8, "max_length": 64}, "age": {"type": "int", "min": 18, "max": 120}}

Built-in types: email, string, int. Constraints: min_length and max_length (string), min and max (int).

## Rule table

A JSON object mapping a type to the rules to apply, in order:
  {"email": ["empty", "invalid_format", "missing"], "string": ["shorter_than_min", "too_long"]}

Omit it to use the built-in table. Call list_rules to see every rule for every type.

## Tools

- generate_payloads: build the payloads. Set include_valid to also get the baseline first.
- list_rules: the rule catalogue, optionally for one type.
- validate_schema: check a schema and rule table without generating anything.

Each case carries a stable id (a hash of field, rule and payload) so results can be tracked across runs.`
