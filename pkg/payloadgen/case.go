package payloadgen

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
)

// Case is one generated payload together with what produced it. The
// baseline case has an empty Field and Type and the rule "valid".
type Case struct {
	ID      string           `json:"id"`
	Field   string           `json:"field,omitempty"`
	Type    schema.FieldType `json:"type,omitempty"`
	Rule    rules.RuleName   `json:"rule"`
	Payload *payload.Payload `json:"payload"`
}

// IsBaseline reports whether c is the valid baseline.
func (c Case) IsBaseline() bool { return c.Rule == rules.Valid }

// Label returns "field.rule", or "valid" for the baseline.
func (c Case) Label() string {
	if c.IsBaseline() {
		return string(rules.Valid)
	}
	return c.Field + "." + string(c.Rule)
}

func newCase(field string, typ schema.FieldType, r rules.RuleName, p *payload.Payload) Case {
	return Case{
		ID:      Fingerprint(field, r, p),
		Field:   field,
		Type:    typ,
		Rule:    r,
		Payload: p,
	}
}

// Fingerprint returns a stable 16 hex digit identifier for a case. It
// changes whenever the field, the rule or the payload bytes change.
func Fingerprint(field string, r rules.RuleName, p *payload.Payload) string {
	h := murmur3.New64()
	_, _ = h.Write([]byte(field))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(p.String()))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Result is the output of one build.
type Result struct {
	Baseline     Case
	Invalid      []Case
	IncludeValid bool
}

// Cases returns the cases to emit: the baseline first when IncludeValid is
// set, then the invalid cases in build order.
func (r *Result) Cases() []Case {
	if !r.IncludeValid {
		return r.Invalid
	}
	out := make([]Case, 0, len(r.Invalid)+1)
	out = append(out, r.Baseline)
	return append(out, r.Invalid...)
}

// Payloads returns the payloads of Cases.
func (r *Result) Payloads() []*payload.Payload {
	cs := r.Cases()
	out := make([]*payload.Payload, len(cs))
	for i, c := range cs {
		out[i] = c.Payload
	}
	return out
}

// CountByRule tallies invalid cases per rule, in first-seen order.
func (r *Result) CountByRule() ([]rules.RuleName, map[rules.RuleName]int) {
	var order []rules.RuleName
	counts := make(map[rules.RuleName]int)
	for _, c := range r.Invalid {
		if _, seen := counts[c.Rule]; !seen {
			order = append(order, c.Rule)
		}
		counts[c.Rule]++
	}
	return order, counts
}

// CountByField tallies invalid cases per field, in first-seen order.
func (r *Result) CountByField() ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for _, c := range r.Invalid {
		if _, seen := counts[c.Field]; !seen {
			order = append(order, c.Field)
		}
		counts[c.Field]++
	}
	return order, counts
}
