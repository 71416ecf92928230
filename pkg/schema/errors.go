package schema

import (
	"errors"
	"fmt"
)

// ErrSchemaParse is returned for any malformed schema document.
var ErrSchemaParse = errors.New("schema: parse error")

// ParseError carries the location of a schema problem.
type ParseError struct {
	Source string // file path, empty for in-memory input
	Field  string // offending field, empty for document-level problems
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "schema: "
	if e.Source != "" {
		msg += e.Source + ": "
	}
	if e.Field != "" {
		msg += fmt.Sprintf("field %q: ", e.Field)
	}
	msg += e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrSchemaParse.
func (e *ParseError) Is(target error) bool { return target == ErrSchemaParse }

func (e *ParseError) Unwrap() error { return e.Err }
