package rules

import (
	"errors"
	"fmt"
)

// ErrRuleTableParse is returned for any malformed rule table document.
var ErrRuleTableParse = errors.New("rules: parse error")

// ParseError carries the location of a rule table problem.
type ParseError struct {
	Source string
	Type   string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "rules: "
	if e.Source != "" {
		msg += e.Source + ": "
	}
	if e.Type != "" {
		msg += fmt.Sprintf("type %q: ", e.Type)
	}
	msg += e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrRuleTableParse.
func (e *ParseError) Is(target error) bool { return target == ErrRuleTableParse }

func (e *ParseError) Unwrap() error { return e.Err }
