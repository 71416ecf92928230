package mcpserver

import (
	"context"
	"log/slog"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/presets"
)

const (
	uriVersion      = "tdgen://version"
	uriDefaultRules = "tdgen://rules/default"
	uriCatalogue    = "tdgen://catalogue"
	uriPresetPrefix = "tdgen://presets/"
)

// registerResources adds all read-only resources to the MCP server.
func (s *Server) registerResources() {
	s.addJSONResource(uriVersion, "tdgen Version",
		"Server version, tools and loaded plugins.",
		func() any {
			plugins := s.config.Plugins
			if plugins == nil {
				plugins = []string{}
			}
			return map[string]any{
				"name":    defaults.ToolName,
				"version": defaults.Version,
				"tools":   []string{"generate_payloads", "list_rules", "validate_schema"},
				"types":   s.synth.Types(),
				"plugins": plugins,
			}
		})

	s.addJSONResource(uriDefaultRules, "Built-in Rule Table",
		"The rule table used when none is given, in the rule file format.",
		func() any { return rules.Default() })

	s.addJSONResource(uriCatalogue, "Rule Catalogue",
		"Every rule per type with a description of the value it produces.",
		func() any { return s.synth.Catalogue() })

	for _, name := range presets.Names() {
		data, err := presets.Read(name)
		if err != nil {
			s.logger.Warn("skipping preset", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}
		s.addJSONResource(uriPresetPrefix+name, "Example Schema: "+name,
			"A ready-made schema to pass to generate_payloads or adapt.",
			func() any { return jsontext.Value(data) })
	}
}

func (s *Server) addJSONResource(uri, name, description string, build func() any) {
	s.mcp.AddResource(
		&mcp.Resource{
			URI:         uri,
			Name:        name,
			Description: description,
			MIMEType:    "application/json",
		},
		func(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
			data, err := jsonutil.MarshalIndent(build(), "", defaults.JSONIndent)
			if err != nil {
				return nil, err
			}
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{
					{URI: uri, MIMEType: "application/json", Text: string(data)},
				},
			}, nil
		},
	)
}
