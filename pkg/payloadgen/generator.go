// Package payloadgen builds the valid baseline payload and the set of
// invalid payloads for a schema. Each invalid payload is the baseline with
// exactly one field broken by exactly one rule.
package payloadgen

import (
	"fmt"

	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

// Options controls what a Builder emits.
type Options struct {
	// IncludeValid prepends the valid baseline to Result.Payloads.
	IncludeValid bool
}

// Builder produces payloads from a schema and a rule table.
// A Builder holds no per-build state and may be shared.
type Builder struct {
	synth *synth.Synthesizer
	opts  Options
}

// NewBuilder returns a Builder backed by s. A nil s uses synth.New().
func NewBuilder(s *synth.Synthesizer, opts Options) *Builder {
	if s == nil {
		s = synth.New()
	}
	return &Builder{synth: s, opts: opts}
}

// BuildValid returns the baseline payload: every field in schema order set
// to its valid value. An unsupported type aborts the build.
func (b *Builder) BuildValid(sc *schema.Schema) (*payload.Payload, error) {
	p := payload.New(sc.Len())
	for _, f := range sc.Fields() {
		v, err := b.synth.Valid(f)
		if err != nil {
			return nil, err
		}
		p.Set(f.Name, v)
	}
	return p, nil
}

// BuildInvalidSet returns one payload per (field, rule) pair where rule is
// listed for the field's type. Fields whose type is absent from the table
// contribute nothing.
func (b *Builder) BuildInvalidSet(sc *schema.Schema, t *rules.Table) ([]*payload.Payload, error) {
	res, err := b.BuildCases(sc, t)
	if err != nil {
		return nil, err
	}
	out := make([]*payload.Payload, len(res.Invalid))
	for i, c := range res.Invalid {
		out[i] = c.Payload
	}
	return out, nil
}

// BuildCases returns the baseline and every invalid payload, each wrapped
// with the field and rule that produced it.
func (b *Builder) BuildCases(sc *schema.Schema, t *rules.Table) (*Result, error) {
	base, err := b.BuildValid(sc)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Baseline:     newCase("", "", rules.Valid, base),
		IncludeValid: b.opts.IncludeValid,
	}

	total := Expected(sc, t)
	res.Invalid = make([]Case, 0, total)

	for _, f := range sc.Fields() {
		rs, ok := t.Rules(f.Type)
		if !ok {
			continue
		}
		for _, r := range rs {
			p, err := b.mutatorFor(r).Mutate(base, f)
			if err != nil {
				return nil, err
			}
			res.Invalid = append(res.Invalid, newCase(f.Name, f.Type, r, p))
		}
	}

	if len(res.Invalid) != total {
		return nil, fmt.Errorf("payloadgen: built %d invalid payloads, expected %d", len(res.Invalid), total)
	}
	return res, nil
}

// Expected is the number of invalid payloads BuildCases yields for sc and t:
// the sum over fields of the rule count of the field's type.
func Expected(sc *schema.Schema, t *rules.Table) int {
	total := 0
	for _, f := range sc.Fields() {
		total += t.Count(f.Type)
	}
	return total
}
