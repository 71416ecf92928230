package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/waftester/tdgen/pkg/config"
	"github.com/waftester/tdgen/pkg/payloadgen"
	"github.com/waftester/tdgen/pkg/ui"
)

// runValidate loads the schema, rules and plugins and runs every check a
// generate run would, without building or writing anything.
func runValidate(args []string, stderr io.Writer) error {
	cfg := config.Default()
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.SchemaPath, "schema", "", "Schema file (JSON or YAML)")
	fs.StringVar(&cfg.RulesPath, "rules", "", "Invalid-rule table")
	fs.StringVar(&cfg.PluginDir, "plugins", "", "Directory of generator plugins")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	applyTerminal(false, cfg.NoColor)

	in, err := loadInputs(cfg, newLogger(stderr, logOptions{}))
	if err != nil {
		return err
	}

	ui.PrintSection("Schema")
	opts := make([]ui.Option, 0, in.Schema.Len())
	for _, f := range in.Schema.Fields() {
		n := in.Rules.Count(f.Type)
		opts = append(opts, ui.Option{Name: f.Name, Value: fmt.Sprintf("%s, %d rule(s)", f.Type, n)})
	}
	ui.PrintConfig(opts...)

	ui.PrintSection("Result")
	ui.PrintConfig(
		ui.Option{Name: "Rules", Value: in.RulesSource},
		ui.Option{Name: "Expected payloads", Value: strconv.Itoa(payloadgen.Expected(in.Schema, in.Rules))},
	)
	ui.PrintSuccess(fmt.Sprintf("%s is valid", in.SchemaPath))
	return nil
}

// parseFlags parses args into fs and rejects positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", config.ErrInvalidConfig, fs.Arg(0))
	}
	return nil
}
