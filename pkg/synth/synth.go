// Package synth turns schema fields into concrete values.
//
// A Synthesizer holds two lookup tables: one valid generator per field type
// and one invalid generator per (type, rule) pair. Universal rules such as
// missing and null apply to every registered type unless a type registers
// its own generator for the same rule. Generators are pure: the same field
// always yields the same value.
package synth

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
)

// Generator produces one value for a field.
type Generator func(f schema.Field) (payload.Value, error)

type genKey struct {
	typ  schema.FieldType
	rule rules.RuleName
}

type ruleEntry struct {
	gen  Generator
	desc string
}

// RuleInfo describes one entry of the rule catalogue.
type RuleInfo struct {
	Type        schema.FieldType `json:"type"`
	Rule        rules.RuleName   `json:"rule"`
	Description string           `json:"description"`
	Universal   bool             `json:"universal,omitempty"`
}

// Synthesizer maps fields to valid and invalid values.
// It is safe for concurrent use.
type Synthesizer struct {
	mu sync.RWMutex

	types     []schema.FieldType
	valid     map[schema.FieldType]Generator
	invalid   map[genKey]ruleEntry
	ruleOrder map[schema.FieldType][]rules.RuleName

	universal      map[rules.RuleName]ruleEntry
	universalOrder []rules.RuleName
}

// New returns a Synthesizer with the built-in generators installed.
// It panics if the built-in default rule table references a generator that
// does not exist.
func New() *Synthesizer {
	s := newEmpty()
	s.registerBuiltins()
	if err := s.Check(rules.Default()); err != nil {
		panic(fmt.Sprintf("synth: built-in generators incomplete: %v", err))
	}
	return s
}

func newEmpty() *Synthesizer {
	return &Synthesizer{
		valid:     make(map[schema.FieldType]Generator),
		invalid:   make(map[genKey]ruleEntry),
		ruleOrder: make(map[schema.FieldType][]rules.RuleName),
		universal: make(map[rules.RuleName]ruleEntry),
	}
}

// RegisterType adds the valid generator for a new field type.
func (s *Synthesizer) RegisterType(typ schema.FieldType, g Generator) error {
	if typ == "" || g == nil {
		return fmt.Errorf("synth: register type: empty type or nil generator")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.valid[typ]; ok {
		return fmt.Errorf("%w: type %q", ErrDuplicateGenerator, typ)
	}
	s.valid[typ] = g
	s.types = append(s.types, typ)
	return nil
}

// RegisterRule adds the invalid generator for (typ, rule). The type does not
// need to be registered yet.
func (s *Synthesizer) RegisterRule(typ schema.FieldType, rule rules.RuleName, desc string, g Generator) error {
	if typ == "" || rule == "" || g == nil {
		return fmt.Errorf("synth: register rule: empty type, empty rule or nil generator")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := genKey{typ, rule}
	if _, ok := s.invalid[key]; ok {
		return fmt.Errorf("%w: rule %q for type %q", ErrDuplicateGenerator, rule, typ)
	}
	s.invalid[key] = ruleEntry{gen: g, desc: desc}
	s.ruleOrder[typ] = append(s.ruleOrder[typ], rule)
	return nil
}

// RegisterUniversal adds a rule that applies to every registered type.
func (s *Synthesizer) RegisterUniversal(rule rules.RuleName, desc string, g Generator) error {
	if rule == "" || g == nil {
		return fmt.Errorf("synth: register universal rule: empty rule or nil generator")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.universal[rule]; ok {
		return fmt.Errorf("%w: universal rule %q", ErrDuplicateGenerator, rule)
	}
	s.universal[rule] = ruleEntry{gen: g, desc: desc}
	s.universalOrder = append(s.universalOrder, rule)
	return nil
}

// Valid returns the baseline value for f.
func (s *Synthesizer) Valid(f schema.Field) (payload.Value, error) {
	s.mu.RLock()
	g, ok := s.valid[f.Type]
	s.mu.RUnlock()

	if !ok {
		return payload.Value{}, &UnsupportedTypeError{Field: f.Name, Type: f.Type}
	}
	return g(f)
}

// Invalid returns the value that breaks rule for f. The missing rule yields
// an Absent value.
func (s *Synthesizer) Invalid(f schema.Field, rule rules.RuleName) (payload.Value, error) {
	g, ok := s.lookup(f.Type, rule)
	if !ok {
		return payload.Value{}, &UnsupportedRuleError{Field: f.Name, Type: f.Type, Rule: rule}
	}
	v, err := g(f)
	if err != nil {
		var ue *UnsatisfiableRuleError
		if errors.As(err, &ue) && ue.Field == "" {
			ue.Field, ue.Type, ue.Rule = f.Name, f.Type, rule
		}
		return payload.Value{}, err
	}
	return v, nil
}

func (s *Synthesizer) lookup(typ schema.FieldType, rule rules.RuleName) (Generator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.invalid[genKey{typ, rule}]; ok {
		return e.gen, true
	}
	if _, known := s.valid[typ]; !known {
		return nil, false
	}
	if e, ok := s.universal[rule]; ok {
		return e.gen, true
	}
	return nil, false
}

// Supports reports whether Invalid can be called for (typ, rule).
func (s *Synthesizer) Supports(typ schema.FieldType, rule rules.RuleName) bool {
	_, ok := s.lookup(typ, rule)
	return ok
}

// HasType reports whether typ has a valid generator.
func (s *Synthesizer) HasType(typ schema.FieldType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.valid[typ]
	return ok
}

// Types returns the registered types in registration order.
func (s *Synthesizer) Types() []schema.FieldType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.types)
}

// Check reports every (type, rule) pair in t that has no generator. The
// returned error joins one UnsupportedRuleError per gap.
func (s *Synthesizer) Check(t *rules.Table) error {
	var errs []error
	for _, typ := range t.Types() {
		rs, _ := t.Rules(typ)
		for _, r := range rs {
			if !s.Supports(typ, r) {
				errs = append(errs, &UnsupportedRuleError{Type: typ, Rule: r})
			}
		}
	}
	return errors.Join(errs...)
}

// CheckSchema reports every field whose type has no valid generator.
func (s *Synthesizer) CheckSchema(sc *schema.Schema) error {
	var errs []error
	for _, f := range sc.Fields() {
		if !s.HasType(f.Type) {
			errs = append(errs, &UnsupportedTypeError{Field: f.Name, Type: f.Type})
		}
	}
	return errors.Join(errs...)
}

// Catalogue lists every rule available for every registered type: the
// type's own rules in registration order followed by the universal rules
// it does not override.
func (s *Synthesizer) Catalogue() []RuleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RuleInfo
	for _, typ := range s.types {
		for _, r := range s.ruleOrder[typ] {
			out = append(out, RuleInfo{Type: typ, Rule: r, Description: s.invalid[genKey{typ, r}].desc})
		}
		for _, r := range s.universalOrder {
			if _, own := s.invalid[genKey{typ, r}]; own {
				continue
			}
			out = append(out, RuleInfo{Type: typ, Rule: r, Description: s.universal[r].desc, Universal: true})
		}
	}
	return out
}
