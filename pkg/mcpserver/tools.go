package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waftester/tdgen/pkg/duration"
	"github.com/waftester/tdgen/pkg/payloadgen"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

// registerTools adds all tools to the MCP server.
func (s *Server) registerTools() {
	s.addGeneratePayloadsTool()
	s.addListRulesTool()
	s.addValidateSchemaTool()
}

// documentSchema is the input schema shared by the schema and rules
// arguments: an inline object or a JSON/YAML string.
func documentSchema(description string) map[string]any {
	return map[string]any{
		"description": description,
		"oneOf": []any{
			map[string]any{"type": "object"},
			map[string]any{"type": "string"},
		},
	}
}

var readOnly = &mcp.ToolAnnotations{
	ReadOnlyHint:   true,
	IdempotentHint: true,
	OpenWorldHint:  boolPtr(false),
}

// ═══════════════════════════════════════════════════════════════════════════
// generate_payloads
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addGeneratePayloadsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "generate_payloads",
			Title: "Generate Negative Test Payloads",
			Description: `Build one payload per (field, rule) pair. Each payload is the valid baseline with exactly one field broken or removed.

USE THIS TOOL WHEN:
• You need request bodies that a form or API should reject
• You want to check that validation covers every field

EXAMPLE INPUT:
{"schema": {"email": {"type": "email"}, "password": {"type": "string", "min_length": 8}},
 "rules": {"email": ["empty", "missing"], "string": ["shorter_than_min"]}}

Returns: total, expected, and the cases in order. Each case has id, field, type, rule and payload.`,
			InputSchema: map[string]any{
				"type":     "object",
				"required": []string{"schema"},
				"properties": map[string]any{
					"schema": documentSchema("Field definitions in order: name -> {type, constraints}."),
					"rules":  documentSchema("Rules per type in order. Omit for the built-in table."),
					"include_valid": map[string]any{
						"type":        "boolean",
						"description": "Emit the valid baseline as the first case.",
						"default":     false,
					},
				},
			},
			Annotations: readOnly,
		},
		s.handleGeneratePayloads,
	)
}

type generateArgs struct {
	Schema       jsontext.Value `json:"schema"`
	Rules        jsontext.Value `json:"rules"`
	IncludeValid bool           `json:"include_valid"`
}

type generateResponse struct {
	Total    int               `json:"total"`
	Expected int               `json:"expected"`
	Cases    []payloadgen.Case `json:"cases"`
}

func (s *Server) handleGeneratePayloads(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args generateArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v. Expected 'schema' (object), optional 'rules' (object) and 'include_valid' (bool).", err)), nil
	}
	sc, tbl, msg := s.loadInputs(args.Schema, args.Rules)
	if msg != "" {
		return errorResult(msg), nil
	}

	ctx, cancel := context.WithTimeout(ctx, duration.GenerateTimeout)
	defer cancel()

	type built struct {
		res *payloadgen.Result
		err error
	}
	done := make(chan built, 1)
	go func() {
		res, err := payloadgen.NewBuilder(s.synth, payloadgen.Options{IncludeValid: args.IncludeValid}).BuildCases(sc, tbl)
		done <- built{res, err}
	}()

	var b built
	select {
	case <-ctx.Done():
		return errorResult(fmt.Sprintf("generation did not finish within %s", duration.GenerateTimeout)), nil
	case b = <-done:
	}
	if b.err != nil {
		return errorResult(generationHint(b.err)), nil
	}

	cases := b.res.Cases()
	logToSession(ctx, req, logInfo, map[string]any{
		"event":    "generated",
		"payloads": len(cases),
	})
	return jsonResult(generateResponse{
		Total:    len(cases),
		Expected: payloadgen.Expected(sc, tbl),
		Cases:    cases,
	})
}

// loadInputs parses the schema and rule table arguments. A non-empty
// message means the call should fail with it.
func (s *Server) loadInputs(schemaArg, rulesArg jsontext.Value) (*schema.Schema, *rules.Table, string) {
	data, err := documentBytes(schemaArg)
	if err != nil {
		return nil, nil, fmt.Sprintf("'schema': %v", err)
	}
	sc, err := schema.Parse(data)
	if err != nil {
		return nil, nil, fmt.Sprintf("invalid schema: %v", err)
	}

	tbl := rules.Default()
	if len(rulesArg) > 0 {
		data, err := documentBytes(rulesArg)
		if err != nil {
			return nil, nil, fmt.Sprintf("'rules': %v", err)
		}
		if tbl, err = rules.Parse(data); err != nil {
			return nil, nil, fmt.Sprintf("invalid rules: %v", err)
		}
	}
	return sc, tbl, ""
}

// generationHint adds the next step to a generation failure.
func generationHint(err error) string {
	switch {
	case errors.Is(err, synth.ErrUnsupportedType):
		return fmt.Sprintf("%v. Call list_rules for the supported types.", err)
	case errors.Is(err, synth.ErrUnsupportedRule):
		return fmt.Sprintf("%v. Call list_rules for the rules of this type.", err)
	case errors.Is(err, synth.ErrUnsatisfiableRule):
		return fmt.Sprintf("%v. Relax the field's constraints or drop the rule.", err)
	default:
		return err.Error()
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// list_rules
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addListRulesTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "list_rules",
			Title: "List Rules",
			Description: `List every rule tdgen can apply, per field type, with a description of the value it produces.

Rules marked universal (missing, null) apply to every type.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type":        "string",
						"description": "Only list rules for this field type.",
					},
				},
			},
			Annotations: readOnly,
		},
		s.handleListRules,
	)
}

type listRulesArgs struct {
	Type string `json:"type"`
}

type listRulesResponse struct {
	Types []schema.FieldType `json:"types"`
	Rules []synth.RuleInfo   `json:"rules"`
}

func (s *Server) handleListRules(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listRulesArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v. Expected optional 'type' (string).", err)), nil
	}

	types := s.synth.Types()
	if args.Type != "" && !slices.Contains(types, schema.FieldType(args.Type)) {
		return errorResult(fmt.Sprintf("unknown type %q. Known types: %v", args.Type, types)), nil
	}

	resp := listRulesResponse{Types: types, Rules: []synth.RuleInfo{}}
	for _, info := range s.synth.Catalogue() {
		if args.Type == "" || string(info.Type) == args.Type {
			resp.Rules = append(resp.Rules, info)
		}
	}
	return jsonResult(resp)
}

// ═══════════════════════════════════════════════════════════════════════════
// validate_schema
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) addValidateSchemaTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name:  "validate_schema",
			Title: "Validate Schema",
			Description: `Check that a schema and rule table parse and that every type and rule they use has a generator. Nothing is generated.

Returns: field count and expected payload count, or every problem found.`,
			InputSchema: map[string]any{
				"type":     "object",
				"required": []string{"schema"},
				"properties": map[string]any{
					"schema": documentSchema("Field definitions in order: name -> {type, constraints}."),
					"rules":  documentSchema("Rules per type in order. Omit for the built-in table."),
				},
			},
			Annotations: readOnly,
		},
		s.handleValidateSchema,
	)
}

type validateArgs struct {
	Schema jsontext.Value `json:"schema"`
	Rules  jsontext.Value `json:"rules"`
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Fields   int      `json:"fields"`
	Expected int      `json:"expected_payloads"`
	Problems []string `json:"problems,omitempty"`
}

func (s *Server) handleValidateSchema(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args validateArgs
	if err := parseArgs(req, &args); err != nil {
		return errorResult(fmt.Sprintf("invalid arguments: %v. Expected 'schema' (object) and optional 'rules' (object).", err)), nil
	}
	sc, tbl, msg := s.loadInputs(args.Schema, args.Rules)
	if msg != "" {
		return errorResult(msg), nil
	}

	resp := validateResponse{Fields: sc.Len(), Expected: payloadgen.Expected(sc, tbl)}
	for _, err := range []error{s.synth.CheckSchema(sc), s.synth.Check(tbl)} {
		resp.Problems = append(resp.Problems, flatten(err)...)
	}
	resp.Valid = len(resp.Problems) == 0

	if !resp.Valid {
		logToSession(ctx, req, logWarning, map[string]any{"event": "invalid", "problems": len(resp.Problems)})
		result, err := jsonResult(resp)
		if err != nil {
			return nil, err
		}
		result.IsError = true
		return result, nil
	}
	return jsonResult(resp)
}

// flatten splits a joined error into its messages.
func flatten(err error) []string {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range j.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
