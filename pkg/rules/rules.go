// Package rules defines invalidation rule names and the rule table that maps
// each field type to the ordered rules applied to fields of that type.
package rules

import (
	"bytes"
	"slices"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/waftester/tdgen/pkg/schema"
)

// RuleName identifies one way of making a field invalid. A rule name only
// has meaning together with a field type.
type RuleName string

// Rule names with built-in generators.
const (
	Missing               RuleName = "missing"
	Null                  RuleName = "null"
	Empty                 RuleName = "empty"
	InvalidFormat         RuleName = "invalid_format"
	OnlySpaces            RuleName = "only_spaces"
	LeadingTrailingSpaces RuleName = "leading_trailing_spaces"
	TooLong               RuleName = "too_long"
	MissingDomain         RuleName = "missing_domain"
	MissingLocalPart      RuleName = "missing_local_part"
	ShorterThanMin        RuleName = "shorter_than_min"
	LongerThanMax         RuleName = "longer_than_max"
	BelowMin              RuleName = "below_min"
	AboveMax              RuleName = "above_max"
	WrongType             RuleName = "wrong_type"
)

// Valid labels the baseline payload in case listings and events. It is not
// an invalidation rule and never appears in a table.
const Valid RuleName = "valid"

// Table maps field types to ordered rule lists. Type order is preserved
// from the source document.
type Table struct {
	types []schema.FieldType
	rules map[schema.FieldType][]RuleName
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rules: make(map[schema.FieldType][]RuleName)}
}

// Set replaces the rule list for typ. A new type is appended to the type
// order.
func (t *Table) Set(typ schema.FieldType, rs ...RuleName) {
	if t.rules == nil {
		t.rules = make(map[schema.FieldType][]RuleName)
	}
	if _, ok := t.rules[typ]; !ok {
		t.types = append(t.types, typ)
	}
	t.rules[typ] = slices.Clone(rs)
}

// Rules returns the ordered rules for typ and whether typ has an entry.
func (t *Table) Rules(typ schema.FieldType) ([]RuleName, bool) {
	if t == nil {
		return nil, false
	}
	rs, ok := t.rules[typ]
	return slices.Clone(rs), ok
}

// Types returns the table's types in document order.
func (t *Table) Types() []schema.FieldType {
	if t == nil {
		return nil
	}
	return slices.Clone(t.types)
}

// Count returns the number of rules listed for typ.
func (t *Table) Count(typ schema.FieldType) int {
	if t == nil {
		return 0
	}
	return len(t.rules[typ])
}

// Total returns the number of rules across all types.
func (t *Table) Total() int {
	n := 0
	for _, typ := range t.Types() {
		n += len(t.rules[typ])
	}
	return n
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for _, typ := range t.Types() {
		c.Set(typ, t.rules[typ]...)
	}
	return c
}

// MarshalJSON encodes t as an object keyed by type, in table order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return nil, err
	}
	for _, typ := range t.Types() {
		if err := enc.WriteToken(jsontext.String(string(typ))); err != nil {
			return nil, err
		}
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return nil, err
		}
		for _, r := range t.rules[typ] {
			if err := enc.WriteToken(jsontext.String(string(r))); err != nil {
				return nil, err
			}
		}
		if err := enc.WriteToken(jsontext.EndArray); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
