package synth

import (
	"errors"
	"fmt"

	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
)

var (
	// ErrUnsupportedType is returned when no valid generator exists for a
	// field type.
	ErrUnsupportedType = errors.New("synth: unsupported field type")

	// ErrUnsupportedRule is returned when no generator exists for a
	// (type, rule) pair.
	ErrUnsupportedRule = errors.New("synth: unsupported rule")

	// ErrUnsatisfiableRule is returned when a rule is registered but the
	// field's constraints leave no value that breaks it.
	ErrUnsatisfiableRule = errors.New("synth: unsatisfiable rule")

	// ErrDuplicateGenerator is returned when registering over an existing
	// generator.
	ErrDuplicateGenerator = errors.New("synth: generator already registered")
)

// UnsupportedTypeError names the field whose type has no generator.
type UnsupportedTypeError struct {
	Field string
	Type  schema.FieldType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("synth: field %q: unsupported type %q", e.Field, e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

// UnsupportedRuleError names the (type, rule) pair with no generator. Field
// is empty when the gap is found by Check rather than during a build.
type UnsupportedRuleError struct {
	Field string
	Type  schema.FieldType
	Rule  rules.RuleName
}

func (e *UnsupportedRuleError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("synth: unsupported rule %q for type %q", e.Rule, e.Type)
	}
	return fmt.Sprintf("synth: field %q: unsupported rule %q for type %q", e.Field, e.Rule, e.Type)
}

func (e *UnsupportedRuleError) Unwrap() error { return ErrUnsupportedRule }

// UnsatisfiableRuleError explains why a rule cannot be applied to a field.
type UnsatisfiableRuleError struct {
	Field  string
	Type   schema.FieldType
	Rule   rules.RuleName
	Reason string
}

func (e *UnsatisfiableRuleError) Error() string {
	return fmt.Sprintf("synth: field %q: rule %q cannot be applied: %s", e.Field, e.Rule, e.Reason)
}

func (e *UnsatisfiableRuleError) Unwrap() error { return ErrUnsatisfiableRule }
