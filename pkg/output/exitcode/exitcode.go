// Package exitcode maps the outcome of a run to a process exit code.
//
// Exit codes:
//   - 0: Success (payloads written)
//   - 1: Generation error (unsupported type or rule, unsatisfiable rule, plugin failure)
//   - 2: Usage error (flags, configuration, malformed schema, rule table or plugin)
//   - 3: I/O error (reading inputs or writing the artifact)
//   - 4: Internal error
package exitcode

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/waftester/tdgen/pkg/config"
	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/plugin"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

// Code is a process exit code.
type Code int

const (
	Success  Code = defaults.ExitSuccess
	Generate Code = defaults.ExitGenerateError
	Usage    Code = defaults.ExitUserError
	IO       Code = defaults.ExitIOError
	Internal Code = defaults.ExitInternalError
)

var codeStrings = map[Code]string{
	Success:  "success",
	Generate: "generation_error",
	Usage:    "usage_error",
	IO:       "io_error",
	Internal: "internal_error",
}

var codeDescriptions = map[Code]string{
	Success:  "Payloads generated and written",
	Generate: "A field type or rule has no generator, or a rule cannot be applied",
	Usage:    "Invalid arguments, configuration, schema, rule table or plugin",
	IO:       "Reading an input or writing the output failed",
	Internal: "Unexpected internal error",
}

// FromError classifies err. Input problems are checked before I/O because
// parse errors may wrap the file they came from. A nil error and
// flag.ErrHelp are Success.
func FromError(err error) Code {
	var (
		pathErr *fs.PathError
		linkErr *os.LinkError
	)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return Success
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrMissingRequired),
		errors.Is(err, schema.ErrSchemaParse),
		errors.Is(err, rules.ErrRuleTableParse),
		errors.Is(err, plugin.ErrInvalidScript),
		errors.Is(err, synth.ErrDuplicateGenerator):
		return Usage
	case errors.Is(err, synth.ErrUnsupportedType),
		errors.Is(err, synth.ErrUnsupportedRule),
		errors.Is(err, synth.ErrUnsatisfiableRule),
		errors.Is(err, plugin.ErrScriptFailed):
		return Generate
	case errors.As(err, &pathErr),
		errors.As(err, &linkErr),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return IO
	default:
		return Internal
	}
}

// String returns the snake_case name of the code.
func (c Code) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown_code_%d", int(c))
}

// Description returns a sentence describing the code.
func (c Code) Description() string {
	if s, ok := codeDescriptions[c]; ok {
		return s
	}
	return fmt.Sprintf("Unknown exit code: %d", int(c))
}
