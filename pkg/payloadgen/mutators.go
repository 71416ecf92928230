package payloadgen

import (
	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

// Mutator derives one invalid payload from the baseline by breaking a single
// field. The baseline is never modified.
type Mutator interface {
	// Mutate returns a fresh payload with f broken.
	Mutate(base *payload.Payload, f schema.Field) (*payload.Payload, error)

	// Rule returns the rule this mutator applies.
	Rule() rules.RuleName
}

// RemoveMutator drops the field from the payload.
type RemoveMutator struct{}

func (RemoveMutator) Rule() rules.RuleName { return rules.Missing }

func (RemoveMutator) Mutate(base *payload.Payload, f schema.Field) (*payload.Payload, error) {
	p := base.Clone()
	p.Delete(f.Name)
	return p, nil
}

// ReplaceMutator overwrites the field with the synthesizer's invalid value
// for its rule.
type ReplaceMutator struct {
	Synth *synth.Synthesizer
	Name  rules.RuleName
}

func (m *ReplaceMutator) Rule() rules.RuleName { return m.Name }

func (m *ReplaceMutator) Mutate(base *payload.Payload, f schema.Field) (*payload.Payload, error) {
	v, err := m.Synth.Invalid(f, m.Name)
	if err != nil {
		return nil, err
	}
	p := base.Clone()
	p.Set(f.Name, v)
	return p, nil
}

func (b *Builder) mutatorFor(r rules.RuleName) Mutator {
	if r == rules.Missing {
		return RemoveMutator{}
	}
	return &ReplaceMutator{Synth: b.synth, Name: r}
}
