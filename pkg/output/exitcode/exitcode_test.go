package exitcode

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waftester/tdgen/pkg/config"
	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/plugin"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

func TestCodesMatchDefaults(t *testing.T) {
	assert.Equal(t, defaults.ExitSuccess, int(Success))
	assert.Equal(t, defaults.ExitGenerateError, int(Generate))
	assert.Equal(t, defaults.ExitUserError, int(Usage))
	assert.Equal(t, defaults.ExitIOError, int(IO))
	assert.Equal(t, defaults.ExitInternalError, int(Internal))
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, Success},
		{"help", flag.ErrHelp, Success},
		{"missing flag", fmt.Errorf("%w: -schema", config.ErrMissingRequired), Usage},
		{"bad config", fmt.Errorf("%w: unknown format", config.ErrInvalidConfig), Usage},
		{"schema parse", &schema.ParseError{Msg: "bad"}, Usage},
		{"schema parse of file", &schema.ParseError{Source: "s.json", Msg: "bad", Err: os.ErrNotExist}, Usage},
		{"rules parse", &rules.ParseError{Msg: "bad"}, Usage},
		{"plugin load", &plugin.ScriptError{Path: "a.tengo", Op: "load"}, Usage},
		{"duplicate generator", fmt.Errorf("register: %w", synth.ErrDuplicateGenerator), Usage},
		{"unsupported type", &synth.UnsupportedTypeError{Field: "id", Type: "uuid"}, Generate},
		{"joined rules", errors.Join(
			&synth.UnsupportedRuleError{Type: "email", Rule: "x"},
			&synth.UnsupportedRuleError{Type: "email", Rule: "y"},
		), Generate},
		{"unsatisfiable", &synth.UnsatisfiableRuleError{Field: "name", Rule: "shorter_than_min"}, Generate},
		{"plugin run", &plugin.ScriptError{Path: "a.tengo", Op: "run"}, Generate},
		{"not found", fmt.Errorf("schema: read x: %w", os.ErrNotExist), IO},
		{"path error", &os.PathError{Op: "open", Path: "x", Err: errors.New("boom")}, IO},
		{"link error", &os.LinkError{Op: "rename", Old: "a", New: "b", Err: errors.New("boom")}, IO},
		{"other", errors.New("boom"), Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromError(tt.err))
		})
	}
}

func TestStringAndDescription(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "usage_error", Usage.String())
	assert.Equal(t, "unknown_code_42", Code(42).String())

	for _, c := range []Code{Success, Generate, Usage, IO, Internal} {
		assert.NotContains(t, c.Description(), "Unknown", c.String())
	}
	assert.Equal(t, "Unknown exit code: 42", Code(42).Description())
}
