package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/waftester/tdgen/pkg/defaults"
	"github.com/waftester/tdgen/pkg/jsonutil"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
	"github.com/waftester/tdgen/pkg/ui"
)

// runRules prints the rule catalogue, or the built-in rule table with
// -default.
func runRules(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rules", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pluginDir := fs.String("plugins", "", "Directory of generator plugins")
	typeFilter := fs.String("type", "", "Only list rules for this field type")
	asJSON := fs.Bool("json", false, "Print as JSON")
	builtIn := fs.Bool("default", false, "Print the built-in rule table as a rule file")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	applyTerminal(false, *noColor)

	if *builtIn {
		return printJSON(stdout, rules.Default())
	}

	syn, _, err := loadSynth(*pluginDir, newLogger(stderr, logOptions{}))
	if err != nil {
		return err
	}
	if *typeFilter != "" && !syn.HasType(schema.FieldType(*typeFilter)) {
		return &synth.UnsupportedTypeError{Type: schema.FieldType(*typeFilter)}
	}

	var catalogue []synth.RuleInfo
	for _, info := range syn.Catalogue() {
		if *typeFilter == "" || string(info.Type) == *typeFilter {
			catalogue = append(catalogue, info)
		}
	}

	if *asJSON {
		return printJSON(stdout, catalogue)
	}
	printCatalogue(stdout, catalogue)
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := jsonutil.MarshalIndent(v, "", defaults.JSONIndent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printCatalogue prints one block per type, rules in catalogue order.
func printCatalogue(w io.Writer, catalogue []synth.RuleInfo) {
	var current schema.FieldType
	for i, info := range catalogue {
		if i == 0 || info.Type != current {
			if i > 0 {
				fmt.Fprintln(w)
			}
			current = info.Type
			fmt.Fprintln(w, ui.SectionStyle.Render(string(info.Type)))
		}
		desc := info.Description
		if info.Universal {
			desc += " (all types)"
		}
		name := fmt.Sprintf("%-26s", info.Rule)
		fmt.Fprintf(w, "  %s %s\n", ui.RuleKindStyle(string(info.Rule)).Render(name), desc)
	}
}
