// Package jsonutil wraps github.com/go-json-experiment/json for the rest of
// the module.
//
// Beyond the encoding/json-shaped helpers it exposes ObjectMembers, which
// walks a JSON object in document order. Schema and rule files are ordered
// mappings, so decoding them into a Go map would lose information.
package jsonutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ErrNotObject is returned by ObjectMembers when the input is valid JSON but
// not an object.
var ErrNotObject = errors.New("jsonutil: value is not a JSON object")

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent returns the indented JSON encoding of v.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	opts := []json.Options{jsontext.WithIndent(indent)}
	if prefix != "" {
		opts = append(opts, jsontext.WithIndentPrefix(prefix))
	}
	return json.Marshal(v, opts...)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return jsontext.Value(data).IsValid()
}

// ObjectMembers calls fn for every member of the JSON object in data, in
// document order. Duplicate names are rejected by the decoder. The value
// passed to fn is a copy and may be retained.
func ObjectMembers(data []byte, fn func(name string, value jsontext.Value) error) error {
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	if dec.PeekKind() != '{' {
		if _, err := dec.ReadValue(); err != nil {
			return err
		}
		return ErrNotObject
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}

	for dec.PeekKind() != '}' {
		tok, err := dec.ReadToken()
		if err != nil {
			return err
		}
		// The token is only valid until the next decoder call.
		name := tok.String()
		val, err := dec.ReadValue()
		if err != nil {
			return err
		}
		if err := fn(name, val.Clone()); err != nil {
			return err
		}
	}
	if _, err := dec.ReadToken(); err != nil {
		return err
	}

	if _, err := dec.ReadToken(); err != io.EOF {
		return fmt.Errorf("jsonutil: unexpected data after top-level object")
	}
	return nil
}

// Encoder provides a streaming JSON encoder compatible with encoding/json.Encoder.
type Encoder struct {
	w      io.Writer
	indent string
}

// NewStreamEncoder creates an encoder that writes to w.
func NewStreamEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the JSON encoding of v to the stream, followed by a newline.
func (e *Encoder) Encode(v any) error {
	var err error
	if e.indent != "" {
		err = json.MarshalWrite(e.w, v, jsontext.WithIndent(e.indent))
	} else {
		err = json.MarshalWrite(e.w, v)
	}
	if err != nil {
		return err
	}
	_, err = e.w.Write([]byte{'\n'})
	return err
}

// SetIndent instructs the encoder to format each subsequent encoded value
// with the given indentation. The prefix is ignored.
func (e *Encoder) SetIndent(prefix, indent string) {
	e.indent = indent
}
