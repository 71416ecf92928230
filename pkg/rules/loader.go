package rules

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/schema"
)

// Parse decodes a rule table. JSON is detected by a leading '{'; anything
// else is treated as YAML of the same shape.
func Parse(data []byte) (*Table, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSON(data)
	}
	return parseYAML(data)
}

// LoadFile reads and parses the rule table at path. Read failures are
// returned unwrapped from ErrRuleTableParse.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err = parseYAML(data)
	default:
		t, err = Parse(data)
	}
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Source = path
		}
		return nil, err
	}
	return t, nil
}

func parseJSON(data []byte) (*Table, error) {
	t := NewTable()
	err := jsonutil.ObjectMembers(data, func(name string, raw jsontext.Value) error {
		var list []string
		if raw.Kind() != '[' {
			return &ParseError{Type: name, Msg: "rules must be an array of strings"}
		}
		if err := jsonutil.Unmarshal(raw, &list); err != nil {
			return &ParseError{Type: name, Msg: "rules must be an array of strings", Err: err}
		}
		return t.setParsed(name, list)
	})
	if err != nil {
		if _, ok := err.(*ParseError); ok {
			return nil, err
		}
		return nil, &ParseError{Msg: "invalid JSON", Err: err}
	}
	return t, nil
}

func parseYAML(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Msg: "invalid YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Msg: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Msg: "top level must be a mapping of type names"}
	}

	t := NewTable()
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, val := root.Content[i].Value, root.Content[i+1]
		if val.Kind != yaml.SequenceNode {
			return nil, &ParseError{Type: name, Msg: "rules must be a sequence of strings"}
		}
		list := make([]string, 0, len(val.Content))
		for _, item := range val.Content {
			// Bare scalars such as null are rule names here, not YAML values.
			if item.Kind != yaml.ScalarNode {
				return nil, &ParseError{Type: name, Msg: "rules must be a sequence of strings"}
			}
			list = append(list, item.Value)
		}
		if err := t.setParsed(name, list); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) setParsed(typ string, list []string) error {
	if typ == "" {
		return &ParseError{Msg: "empty type name"}
	}
	if _, dup := t.rules[schema.FieldType(typ)]; dup {
		return &ParseError{Type: typ, Msg: "duplicate type"}
	}
	rs := make([]RuleName, 0, len(list))
	for _, r := range list {
		if r == "" {
			return &ParseError{Type: typ, Msg: "empty rule name"}
		}
		rs = append(rs, RuleName(r))
	}
	t.Set(schema.FieldType(typ), rs...)
	return nil
}
