// Package config holds the generate command's configuration: flags layered
// over an optional YAML file, flags winning.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/waftester/tdgen/pkg/defaults"
)

// Config holds all options of a generate run.
type Config struct {
	ConfigFile string `yaml:"-"`

	// Inputs
	SchemaPath string `yaml:"schema"`
	RulesPath  string `yaml:"rules"` // empty = schemas/invalid_rules.json if present, else built-in
	PluginDir  string `yaml:"plugins"`

	// Generation
	IncludeValid bool `yaml:"include_valid"`

	// Output
	OutPath         string   `yaml:"out"`
	Format          string   `yaml:"format"`
	WithMeta        bool     `yaml:"with_meta"` // json/jsonl: emit cases with id, field and rule
	TemplatePath    string   `yaml:"template"`
	TemplateBuiltIn string   `yaml:"template_builtin"`
	TemplateVars    VarsFlag `yaml:"vars"`

	// Telemetry
	MetricsFile  string `yaml:"metrics_file"`
	OTelEndpoint string `yaml:"otel_endpoint"`
	OTelInsecure bool   `yaml:"otel_insecure"`

	// Terminal
	Verbose bool `yaml:"verbose"`
	Silent  bool `yaml:"silent"`
	NoColor bool `yaml:"no_color"`
	LogJSON bool `yaml:"log_json"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		OutPath:      defaults.OutPath,
		Format:       defaults.FormatJSON,
		TemplateVars: VarsFlag{},
	}
}

// ParseGenerateFlags parses the generate subcommand's arguments. When
// -config names a YAML file it is loaded first and the flags given on the
// command line override it.
func ParseGenerateFlags(args []string, usage io.Writer) (*Config, error) {
	// First pass only finds -config.
	probe := Default()
	fs := generateFlagSet(probe, io.Discard)
	if err := fs.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := Default()
	if probe.ConfigFile != "" {
		if err := LoadFile(probe.ConfigFile, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigFile = probe.ConfigFile
	}

	fs = generateFlagSet(cfg, usage)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalidConfig, fs.Arg(0))
	}
	return cfg, nil
}

// generateFlagSet binds flags to cfg using cfg's current values as defaults,
// so values loaded from a file survive unless a flag overrides them.
func generateFlagSet(cfg *Config, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")

	// === INPUT ===
	fs.StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "Schema file (JSON or YAML)")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "Invalid-rule table (default: "+defaults.RulesPath+" if present, else built-in)")
	fs.StringVar(&cfg.PluginDir, "plugins", cfg.PluginDir, "Directory of "+defaults.PluginExt+" generator plugins")

	// === GENERATION ===
	fs.BoolVar(&cfg.IncludeValid, "include-valid", cfg.IncludeValid, "Emit the valid baseline before the invalid payloads")

	// === OUTPUT ===
	fs.StringVar(&cfg.OutPath, "out", cfg.OutPath, "Output file, or - for stdout")
	fs.StringVar(&cfg.OutPath, "o", cfg.OutPath, "Output file (alias)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: "+strings.Join(defaults.Formats, ", "))
	fs.BoolVar(&cfg.WithMeta, "with-meta", cfg.WithMeta, "Include case id, field and rule in json/jsonl output")
	fs.StringVar(&cfg.TemplatePath, "template", cfg.TemplatePath, "Go template file for -format template")
	fs.StringVar(&cfg.TemplateBuiltIn, "template-builtin", cfg.TemplateBuiltIn, "Built-in template for -format template (curl, pytest)")
	fs.Var(&cfg.TemplateVars, "var", "Template variable key=value (repeatable)")

	// === TELEMETRY ===
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus textfile metrics here")
	fs.StringVar(&cfg.OTelEndpoint, "otel-endpoint", cfg.OTelEndpoint, "OTLP/gRPC endpoint for traces (host:port)")
	fs.BoolVar(&cfg.OTelInsecure, "otel-insecure", cfg.OTelInsecure, "Disable TLS for the OTLP endpoint")

	// === TERMINAL ===
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.BoolVar(&cfg.Silent, "silent", cfg.Silent, "Only print errors")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON")

	return fs
}

// LoadFile decodes the YAML file at path onto cfg. Unknown keys are errors.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if cfg.TemplateVars == nil {
		cfg.TemplateVars = VarsFlag{}
	}
	return nil
}

// ResolveRulesPath fills in RulesPath with the conventional rule file when
// none was given and it exists. It reports whether a file will be used.
func (c *Config) ResolveRulesPath() bool {
	if c.RulesPath != "" {
		return true
	}
	if _, err := os.Stat(defaults.RulesPath); err == nil {
		c.RulesPath = defaults.RulesPath
		return true
	}
	return false
}

// Validate checks the configuration for missing and conflicting options.
func (c *Config) Validate() error {
	var errs []error

	if c.SchemaPath == "" {
		errs = append(errs, fmt.Errorf("%w: -schema", ErrMissingRequired))
	}
	if c.OutPath == "" {
		errs = append(errs, fmt.Errorf("%w: -out", ErrMissingRequired))
	}
	if !slices.Contains(defaults.Formats, c.Format) {
		errs = append(errs, fmt.Errorf("%w: unknown format %q (want one of %s)",
			ErrInvalidConfig, c.Format, strings.Join(defaults.Formats, ", ")))
	}

	hasTemplate := c.TemplatePath != "" || c.TemplateBuiltIn != ""
	switch {
	case c.Format == defaults.FormatTemplate && !hasTemplate:
		errs = append(errs, fmt.Errorf("%w: -format template needs -template or -template-builtin", ErrMissingRequired))
	case c.Format != defaults.FormatTemplate && hasTemplate:
		errs = append(errs, fmt.Errorf("%w: -template only applies to -format template", ErrInvalidConfig))
	case c.TemplatePath != "" && c.TemplateBuiltIn != "":
		errs = append(errs, fmt.Errorf("%w: -template and -template-builtin are mutually exclusive", ErrInvalidConfig))
	}
	if c.WithMeta && c.Format == defaults.FormatTemplate {
		errs = append(errs, fmt.Errorf("%w: -with-meta does not apply to -format template", ErrInvalidConfig))
	}
	if c.Verbose && c.Silent {
		errs = append(errs, fmt.Errorf("%w: -v and -silent are mutually exclusive", ErrInvalidConfig))
	}
	if c.OTelInsecure && c.OTelEndpoint == "" {
		errs = append(errs, fmt.Errorf("%w: -otel-insecure needs -otel-endpoint", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// VarsFlag collects repeated key=value flags.
type VarsFlag map[string]string

// String renders the map sorted by key.
func (v VarsFlag) String() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + v[k]
	}
	return strings.Join(parts, ",")
}

// Set adds one key=value pair.
func (v *VarsFlag) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	if *v == nil {
		*v = VarsFlag{}
	}
	(*v)[key] = val
	return nil
}
