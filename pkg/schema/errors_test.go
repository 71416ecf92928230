package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Source: "s.json", Field: "email", Msg: "missing type"}
	assert.Equal(t, `schema: s.json: field "email": missing type`, err.Error())

	inner := errors.New("boom")
	err = &ParseError{Msg: "invalid JSON", Err: inner}
	assert.Equal(t, "schema: invalid JSON: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestParseErrorWrapping(t *testing.T) {
	var err error = &ParseError{Msg: "x"}
	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, errors.Is(wrapped, ErrSchemaParse))
	assert.Equal(t, "schema: parse error", ErrSchemaParse.Error())
}
