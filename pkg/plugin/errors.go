package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScript is returned when a script does not compile or does not
	// follow the generator contract.
	ErrInvalidScript = errors.New("plugin: invalid script")

	// ErrScriptFailed is returned when generate fails at run time.
	ErrScriptFailed = errors.New("plugin: script failed")
)

const (
	opLoad = "load"
	opRun  = "run"
)

// ScriptError describes a failure of one script file.
type ScriptError struct {
	Path string
	Op   string
	Msg  string
	Err  error
}

func (e *ScriptError) Error() string {
	s := fmt.Sprintf("plugin: %s %s", e.Op, e.Path)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is matches ErrInvalidScript for load failures and ErrScriptFailed for run
// failures.
func (e *ScriptError) Is(target error) bool {
	switch target {
	case ErrInvalidScript:
		return e.Op == opLoad
	case ErrScriptFailed:
		return e.Op == opRun
	}
	return false
}

func (e *ScriptError) Unwrap() error { return e.Err }

func loadError(path, msg string, err error) *ScriptError {
	return &ScriptError{Path: path, Op: opLoad, Msg: msg, Err: err}
}
