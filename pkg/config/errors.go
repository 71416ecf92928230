package config

import "errors"

// Both sentinels map to the usage exit code.
var (
	// ErrInvalidConfig covers bad flags, an unreadable -config file,
	// unknown formats and options that cannot be combined.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired is returned when -schema, -out or a template
	// source for -format template is missing.
	ErrMissingRequired = errors.New("config: missing required field")
)
