package payload

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/go-json-experiment/json/jsontext"
)

// Payload is an insertion-ordered mapping from field name to Value.
// The zero Payload is empty and ready to use.
type Payload struct {
	keys []string
	vals map[string]Value
}

// New returns an empty payload with room for n fields.
func New(n int) *Payload {
	return &Payload{
		keys: make([]string, 0, n),
		vals: make(map[string]Value, n),
	}
}

// Set stores v under name. A new name is appended; an existing name keeps
// its position. Setting an Absent value removes the field.
func (p *Payload) Set(name string, v Value) {
	if v.IsAbsent() {
		p.Delete(name)
		return
	}
	if p.vals == nil {
		p.vals = make(map[string]Value)
	}
	if _, ok := p.vals[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.vals[name] = v
}

// Get returns the value stored under name, or Absent.
func (p *Payload) Get(name string) Value {
	if p == nil {
		return Absent()
	}
	return p.vals[name]
}

// Has reports whether name is present.
func (p *Payload) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.vals[name]
	return ok
}

// Delete removes name. Deleting a missing field is a no-op.
func (p *Payload) Delete(name string) {
	if _, ok := p.vals[name]; !ok {
		return
	}
	delete(p.vals, name)
	if i := slices.Index(p.keys, name); i >= 0 {
		p.keys = slices.Delete(p.keys, i, i+1)
	}
}

// Len returns the number of present fields.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the field names in insertion order.
func (p *Payload) Keys() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.keys)
}

// Clone returns a deep copy. Mutating the copy never affects p.
func (p *Payload) Clone() *Payload {
	c := New(p.Len())
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.keys = append(c.keys, k)
		c.vals[k] = p.vals[k]
	}
	return c
}

// Equal reports whether p and o hold the same fields, values and order.
func (p *Payload) Equal(o *Payload) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i, k := range p.Keys() {
		if o.keys[i] != k || o.vals[k] != p.vals[k] {
			return false
		}
	}
	return true
}

// Map converts p to a plain map for template and script consumers.
// Field order is lost.
func (p *Payload) Map() map[string]any {
	m := make(map[string]any, p.Len())
	if p == nil {
		return m
	}
	for _, k := range p.keys {
		m[k] = p.vals[k].Interface()
	}
	return m
}

// String renders p as compact JSON.
func (p *Payload) String() string {
	b, err := p.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid payload: %v>", err)
	}
	return string(b)
}

// MarshalJSON encodes p as a JSON object with keys in insertion order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return nil, err
	}
	if p != nil {
		for _, k := range p.keys {
			tok, err := p.vals[k].token()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			if err := enc.WriteToken(jsontext.String(k)); err != nil {
				return nil, err
			}
			if err := enc.WriteToken(tok); err != nil {
				return nil, err
			}
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// UnmarshalJSON decodes a flat JSON object whose values are strings,
// integers or null. Member order is preserved.
func (p *Payload) UnmarshalJSON(data []byte) error {
	dec := jsontext.NewDecoder(bytesReader(data))
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	if tok.Kind() != '{' {
		return &UnsupportedValueError{JSONKind: tok.Kind().String()}
	}

	out := New(0)
	for dec.PeekKind() != '}' {
		nt, err := dec.ReadToken()
		if err != nil {
			return err
		}
		name := nt.String()
		vt, err := dec.ReadToken()
		if err != nil {
			return err
		}
		v, err := fromToken(vt)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		out.Set(name, v)
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}
	*p = *out
	return nil
}

func tokenBytes(tok jsontext.Token) ([]byte, error) {
	var buf bytes.Buffer
	if err := jsontext.NewEncoder(&buf).WriteToken(tok); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
