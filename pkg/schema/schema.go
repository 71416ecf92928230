// Package schema describes the fields a generated payload is made of.
//
// A Schema is an ordered, name-unique list of fields. Field order comes from
// the source document and is the order keys appear in every payload built
// from it.
package schema

import (
	"fmt"
	"slices"
)

// FieldType names a value synthesizer family.
type FieldType string

// Built-in field types.
const (
	TypeEmail  FieldType = "email"
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
)

// BuiltinTypes lists the built-in types in catalogue order.
var BuiltinTypes = []FieldType{TypeEmail, TypeString, TypeInt}

// Constraint keys understood by the built-in generators.
const (
	KeyType      = "type"
	KeyMinLength = "min_length"
	KeyMaxLength = "max_length"
	KeyMin       = "min"
	KeyMax       = "max"
)

// Constraint defaults.
const (
	DefaultMinLength = 1
	DefaultMin       = 0
)

// Field is one named, typed entry of a schema.
type Field struct {
	Name        string
	Type        FieldType
	Constraints map[string]any
}

// Int returns the integer constraint stored under key.
func (f Field) Int(key string) (int, bool) {
	v, ok := f.Constraints[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// MinLength returns min_length, defaulting to 1.
func (f Field) MinLength() int {
	if n, ok := f.Int(KeyMinLength); ok {
		return n
	}
	return DefaultMinLength
}

// MaxLength returns max_length if set.
func (f Field) MaxLength() (int, bool) { return f.Int(KeyMaxLength) }

// Min returns min, defaulting to 0.
func (f Field) Min() int {
	if n, ok := f.Int(KeyMin); ok {
		return n
	}
	return DefaultMin
}

// Max returns max if set.
func (f Field) Max() (int, bool) { return f.Int(KeyMax) }

// Schema is an ordered set of fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a schema from fields in the given order.
// Duplicate names are rejected.
func New(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := s.add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNew is New for literals in tests and examples.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(f Field) error {
	if _, dup := s.index[f.Name]; dup {
		return &ParseError{Field: f.Name, Msg: "duplicate field name"}
	}
	if f.Type == "" {
		return &ParseError{Field: f.Name, Msg: "missing type"}
	}
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}

// Fields returns the fields in schema order.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Types returns the distinct field types in order of first use.
func (s *Schema) Types() []FieldType {
	var out []FieldType
	for _, f := range s.fields {
		if !slices.Contains(out, f.Type) {
			out = append(out, f.Type)
		}
	}
	return out
}

// String summarises the schema for log lines.
func (s *Schema) String() string {
	return fmt.Sprintf("schema(%d fields)", len(s.fields))
}
