// Package payload holds the values and ordered field maps that make up a
// generated request body.
//
// A Value is a small tagged variant. The zero Value is Absent, which means
// "no key at all" and is distinct from an explicit JSON null. Setting an
// Absent value on a Payload removes the key.
package payload

import (
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindString
	KindInt
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one synthesized field value.
type Value struct {
	kind Kind
	s    string
	n    int64
}

// Absent returns the value that marks a field as omitted.
func Absent() Value { return Value{} }

// Null returns an explicit JSON null.
func Null() Value { return Value{kind: KindNull} }

// String returns a text value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v marks an omitted field.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsString returns the text held by v and whether v is a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsInt returns the integer held by v and whether v is an int.
func (v Value) AsInt() (int64, bool) {
	return v.n, v.kind == KindInt
}

// Interface converts v to a plain Go value for templates and scripts.
// Absent and Null both map to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.n
	default:
		return nil
	}
}

// GoString renders v for test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return "payload.String(" + strconv.Quote(v.s) + ")"
	case KindInt:
		return "payload.Int(" + strconv.FormatInt(v.n, 10) + ")"
	case KindNull:
		return "payload.Null()"
	default:
		return "payload.Absent()"
	}
}

// MarshalJSON encodes v. Absent values cannot be encoded on their own.
func (v Value) MarshalJSON() ([]byte, error) {
	tok, err := v.token()
	if err != nil {
		return nil, err
	}
	return tokenBytes(tok)
}

// UnmarshalJSON decodes a string, integer or null into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := jsontext.NewDecoder(bytesReader(data))
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	parsed, err := fromToken(tok)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) token() (jsontext.Token, error) {
	switch v.kind {
	case KindNull:
		return jsontext.Null, nil
	case KindString:
		return jsontext.String(v.s), nil
	case KindInt:
		return jsontext.Int(v.n), nil
	default:
		return jsontext.Token{}, ErrAbsentValue
	}
}

func fromToken(tok jsontext.Token) (Value, error) {
	switch tok.Kind() {
	case 'n':
		return Null(), nil
	case '"':
		return String(tok.String()), nil
	case '0':
		raw := tok.String()
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, &UnsupportedValueError{JSONKind: "number " + raw}
		}
		return Int(n), nil
	default:
		return Value{}, &UnsupportedValueError{JSONKind: tok.Kind().String()}
	}
}
