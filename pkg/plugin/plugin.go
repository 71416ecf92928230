// Package plugin loads field generators written as Tengo scripts.
//
// A script registers one generator. It defines:
//
//	field_type  := "uuid"        // required unless universal
//	rule        := "bad_version" // optional; omit for the type's valid value
//	universal   := false         // optional; the rule applies to every type
//	description := "..."         // optional
//	generate    := func(field) { return "..." }
//
// generate receives a map with name, type and constraints and returns a
// string, an int, undefined (JSON null) or error("reason") when the field's
// constraints leave no value that breaks the rule. Scripts run in a sandbox
// with only the text, fmt, math and times modules.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/duration"
	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

// safeModules are the only Tengo stdlib modules available to scripts.
// No file I/O, no network, no OS access, no randomness.
var safeModules = stdlib.GetModuleMap("text", "fmt", "math", "times")

const (
	varField  = "__field__"
	varResult = "__result__"
)

// Options bounds script execution. Zero values use the package defaults.
type Options struct {
	Timeout   time.Duration
	MaxAllocs int64
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = duration.ScriptTimeout
	}
	if o.MaxAllocs <= 0 {
		o.MaxAllocs = defaults.ScriptMaxAllocs
	}
	return o
}

// Script is one loaded generator.
type Script struct {
	Path        string
	Type        schema.FieldType
	Rule        rules.RuleName
	Universal   bool
	Description string

	opts     Options
	compiled *tengo.Compiled
}

// LoadScript compiles path and reads its metadata.
func LoadScript(path string, opts Options) (*Script, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}
	if info.Size() > defaults.ScriptMaxFileSize {
		return nil, loadError(path, fmt.Sprintf("file larger than %d bytes", defaults.ScriptMaxFileSize), nil)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	// Run the top level once to read the metadata variables.
	meta := tengo.NewScript(src)
	meta.SetImports(safeModules)
	meta.SetMaxAllocs(opts.MaxAllocs)
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	compiled, err := meta.RunContext(ctx)
	if err != nil {
		return nil, loadError(path, "compile", err)
	}

	s := &Script{Path: path, opts: opts}
	if s.Description, err = optionalString(compiled, "description"); err != nil {
		return nil, loadError(path, err.Error(), nil)
	}
	typ, err := optionalString(compiled, "field_type")
	if err != nil {
		return nil, loadError(path, err.Error(), nil)
	}
	rule, err := optionalString(compiled, "rule")
	if err != nil {
		return nil, loadError(path, err.Error(), nil)
	}
	s.Type, s.Rule = schema.FieldType(typ), rules.RuleName(rule)

	if v := compiled.Get("universal"); !v.IsUndefined() {
		if _, ok := v.Object().(*tengo.Bool); !ok {
			return nil, loadError(path, "'universal' must be a bool", nil)
		}
		s.Universal = v.Bool()
	}

	switch {
	case s.Universal && s.Rule == "":
		return nil, loadError(path, "universal script needs 'rule'", nil)
	case s.Universal && s.Type != "":
		return nil, loadError(path, "universal script must not set 'field_type'", nil)
	case !s.Universal && s.Type == "":
		return nil, loadError(path, "missing 'field_type'", nil)
	}

	if _, ok := compiled.Get("generate").Object().(*tengo.CompiledFunction); !ok {
		return nil, loadError(path, "missing 'generate' function", nil)
	}

	if s.Description == "" {
		s.Description = "plugin " + filepath.Base(path)
	}
	if err := s.precompile(src); err != nil {
		return nil, err
	}
	return s, nil
}

func optionalString(c *tengo.Compiled, name string) (string, error) {
	v := c.Get(name)
	if v.IsUndefined() {
		return "", nil
	}
	str, ok := v.Object().(*tengo.String)
	if !ok {
		return "", fmt.Errorf("'%s' must be a string", name)
	}
	return str.Value, nil
}

// precompile appends the generate call and compiles once; Generate clones
// the result per call.
func (s *Script) precompile(src []byte) error {
	wrapped := make([]byte, 0, len(src)+64)
	wrapped = append(wrapped, src...)
	wrapped = append(wrapped, fmt.Sprintf("\n%s := generate(%s)\n", varResult, varField)...)

	script := tengo.NewScript(wrapped)
	script.SetImports(safeModules)
	script.SetMaxAllocs(s.opts.MaxAllocs)
	if err := script.Add(varField, map[string]any{}); err != nil {
		return loadError(s.Path, "bind field", err)
	}
	compiled, err := script.Compile()
	if err != nil {
		return loadError(s.Path, "compile", err)
	}
	s.compiled = compiled
	return nil
}

// Generate runs the script for f. It is safe for concurrent use.
func (s *Script) Generate(f schema.Field) (payload.Value, error) {
	c := s.compiled.Clone()
	if err := c.Set(varField, fieldObject(f)); err != nil {
		return payload.Value{}, &ScriptError{Path: s.Path, Op: opRun, Msg: "bind field " + f.Name, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()
	if err := c.RunContext(ctx); err != nil {
		return payload.Value{}, &ScriptError{Path: s.Path, Op: opRun, Msg: "field " + f.Name, Err: err}
	}

	switch o := c.Get(varResult).Object().(type) {
	case *tengo.String:
		return payload.String(o.Value), nil
	case *tengo.Int:
		return payload.Int(o.Value), nil
	case *tengo.Undefined:
		return payload.Null(), nil
	case *tengo.Error:
		reason, _ := tengo.ToString(o.Value)
		return payload.Value{}, &synth.UnsatisfiableRuleError{Reason: reason}
	default:
		return payload.Value{}, &ScriptError{
			Path: s.Path, Op: opRun, Msg: "field " + f.Name,
			Err: &payload.UnsupportedValueError{JSONKind: o.TypeName()},
		}
	}
}

func fieldObject(f schema.Field) map[string]any {
	constraints := make(map[string]any, len(f.Constraints))
	maps.Copy(constraints, f.Constraints)
	return map[string]any{
		"name":        f.Name,
		"type":        string(f.Type),
		"constraints": constraints,
	}
}

// Register adds the script's generator to syn.
func (s *Script) Register(syn *synth.Synthesizer) error {
	var err error
	switch {
	case s.Universal:
		err = syn.RegisterUniversal(s.Rule, s.Description, s.Generate)
	case s.Rule == "":
		err = syn.RegisterType(s.Type, s.Generate)
	default:
		err = syn.RegisterRule(s.Type, s.Rule, s.Description, s.Generate)
	}
	if err != nil {
		return loadError(s.Path, "register", err)
	}
	return nil
}

// Label is "type", "type.rule" or "*.rule" for universal scripts.
func (s *Script) Label() string {
	switch {
	case s.Universal:
		return "*." + string(s.Rule)
	case s.Rule == "":
		return string(s.Type)
	default:
		return string(s.Type) + "." + string(s.Rule)
	}
}

// LoadDir loads every script in dir, in file name order, and registers it
// with syn. Every failing file is reported; scripts that loaded are still
// registered and returned.
func LoadDir(dir string, syn *synth.Synthesizer, opts Options) ([]*Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("plugin: read dir %s: %w", dir, err)
	}

	var scripts []*Script
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), defaults.PluginExt) {
			continue
		}
		s, err := LoadScript(filepath.Join(dir, entry.Name()), opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.Register(syn); err != nil {
			errs = append(errs, err)
			continue
		}
		scripts = append(scripts, s)
	}
	return scripts, errors.Join(errs...)
}
