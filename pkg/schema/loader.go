package schema

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/jsonutil"
)

// Parse decodes a schema document. JSON is detected by a leading '{';
// anything else is treated as YAML of the same shape.
func Parse(data []byte) (*Schema, error) {
	if looksLikeJSON(data) {
		return parseJSON(data)
	}
	return parseYAML(data)
}

// LoadFile reads and parses the schema at path. Read failures are returned
// as-is so callers can tell I/O errors from malformed documents.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}

	var s *Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = parseYAML(data)
	default:
		s, err = Parse(data)
	}
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Source = path
		}
		return nil, err
	}
	return s, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func parseJSON(data []byte) (*Schema, error) {
	s, _ := New()
	err := jsonutil.ObjectMembers(data, func(name string, raw jsontext.Value) error {
		var body map[string]any
		if err := jsonutil.Unmarshal(raw, &body); err != nil {
			return &ParseError{Field: name, Msg: "field definition must be an object", Err: err}
		}
		if body == nil {
			return &ParseError{Field: name, Msg: "field definition must be an object"}
		}
		f, err := buildField(name, body)
		if err != nil {
			return err
		}
		return s.add(f)
	})
	if err != nil {
		if _, ok := err.(*ParseError); ok {
			return nil, err
		}
		return nil, &ParseError{Msg: "invalid JSON", Err: err}
	}
	return s, nil
}

func parseYAML(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Msg: "invalid YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Msg: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Msg: "top level must be a mapping of field names"}
	}

	s, _ := New()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		name := key.Value
		if val.Kind != yaml.MappingNode {
			return nil, &ParseError{Field: name, Msg: "field definition must be a mapping"}
		}
		var body map[string]any
		if err := val.Decode(&body); err != nil {
			return nil, &ParseError{Field: name, Msg: "invalid field definition", Err: err}
		}
		f, err := buildField(name, body)
		if err != nil {
			return nil, err
		}
		if err := s.add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// buildField validates the decoded body of one field and normalises its
// integer constraints to int.
func buildField(name string, body map[string]any) (Field, error) {
	rawType, ok := body[KeyType]
	if !ok {
		return Field{}, &ParseError{Field: name, Msg: "missing type"}
	}
	typ, ok := rawType.(string)
	if !ok || typ == "" {
		return Field{}, &ParseError{Field: name, Msg: "type must be a non-empty string"}
	}

	f := Field{Name: name, Type: FieldType(typ), Constraints: make(map[string]any, len(body)-1)}
	for k, v := range body {
		if k == KeyType {
			continue
		}
		switch k {
		case KeyMinLength, KeyMaxLength:
			n, ok := toInt(v)
			if !ok || n < 0 {
				return Field{}, &ParseError{Field: name, Msg: k + " must be a non-negative integer"}
			}
			if n > defaults.MaxLengthConstraint {
				return Field{}, &ParseError{Field: name, Msg: fmt.Sprintf("%s exceeds %d", k, defaults.MaxLengthConstraint)}
			}
			f.Constraints[k] = n
		case KeyMin, KeyMax:
			n, ok := toInt(v)
			if !ok {
				return Field{}, &ParseError{Field: name, Msg: k + " must be an integer"}
			}
			f.Constraints[k] = n
		default:
			// Unknown keys are kept for plugin generators.
			if n, ok := toInt(v); ok {
				v = n
			}
			f.Constraints[k] = v
		}
	}

	if lo, ok := f.Int(KeyMinLength); ok {
		if hi, ok := f.Int(KeyMaxLength); ok && hi < lo {
			return Field{}, &ParseError{Field: name, Msg: "max_length is less than min_length"}
		}
	}
	if lo, ok := f.Int(KeyMin); ok {
		if hi, ok := f.Int(KeyMax); ok && hi < lo {
			return Field{}, &ParseError{Field: name, Msg: "max is less than min"}
		}
	}
	return f, nil
}

// maxExactFloat is the largest magnitude at which float64 still holds every
// integer exactly.
const maxExactFloat = 1 << 53

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > maxExactFloat {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
