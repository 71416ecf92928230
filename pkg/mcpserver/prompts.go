package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds workflow prompts to the MCP server.
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(
		&mcp.Prompt{
			Name:        "negative_tests",
			Description: "Derive a schema from a form or endpoint description, generate invalid payloads and turn them into rejection tests.",
			Arguments: []*mcp.PromptArgument{
				{Name: "target", Description: "The form or endpoint under test, e.g. 'POST /api/signup'", Required: true},
				{Name: "framework", Description: "Test framework for the generated tests, e.g. 'pytest' or 'jest'", Required: false},
			},
		},
		func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			target := req.Params.Arguments["target"]
			if target == "" {
				return nil, fmt.Errorf("'target' argument is required")
			}
			framework := req.Params.Arguments["framework"]
			if framework == "" {
				framework = "the project's existing test framework"
			}

			text := fmt.Sprintf(`Write negative validation tests for %s.

1. Read the handler, form or API contract for %s and write a tdgen schema: one entry per field, in request order, with type email, string or int and the min_length, max_length, min and max constraints the code enforces.
2. Call validate_schema with it. Fix every problem it reports.
3. Call list_rules and pick the rules each type should reject. Call generate_payloads with the schema, that rule table and include_valid true.
4. Using %s, write one test that sends the valid case and expects success, and one parametrised test that sends every other case and expects a validation error. Use each case's id as the test id.`,
				target, target, framework)

			return &mcp.GetPromptResult{
				Description: "Negative tests for " + target,
				Messages: []*mcp.PromptMessage{
					{Role: "user", Content: &mcp.TextContent{Text: text}},
				},
			}, nil
		},
	)
}
