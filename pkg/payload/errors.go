package payload

import (
	"errors"
	"fmt"
)

var (
	// ErrAbsentValue is returned when an Absent value is encoded directly.
	// Absent only has meaning as a field of a Payload.
	ErrAbsentValue = errors.New("payload: absent value cannot be encoded")

	// ErrUnsupportedValue is the sentinel behind UnsupportedValueError.
	ErrUnsupportedValue = errors.New("payload: unsupported JSON value")
)

// UnsupportedValueError reports a decoded JSON value that is not a string,
// integer or null.
type UnsupportedValueError struct {
	JSONKind string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("payload: unsupported JSON value of kind %s", e.JSONKind)
}

// Unwrap lets errors.Is match ErrUnsupportedValue.
func (e *UnsupportedValueError) Unwrap() error { return ErrUnsupportedValue }
