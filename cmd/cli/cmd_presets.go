package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/waftester/tdgen/pkg/config"
	"github.com/waftester/tdgen/presets"
)

// runPresets lists the bundled example schemas, or prints one of them so it
// can be redirected into a schema file.
func runPresets(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	switch fs.NArg() {
	case 0:
		for _, name := range presets.Names() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	case 1:
		data, err := presets.Read(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("%w: unknown preset %q (available: %s)",
				config.ErrInvalidConfig, fs.Arg(0), strings.Join(presets.Names(), ", "))
		}
		_, err = stdout.Write(data)
		return err
	default:
		return fmt.Errorf("%w: presets takes at most one name", config.ErrInvalidConfig)
	}
}
