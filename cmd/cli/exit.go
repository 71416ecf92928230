package main

import (
	"strings"

	"github.com/waftester/tdgen/pkg/output/exitcode"
	"github.com/waftester/tdgen/pkg/ui"
)

func exitCode(err error) int { return int(exitcode.FromError(err)) }

// report prints err, one line per joined error, and returns its exit code.
func report(err error) int {
	code := exitcode.FromError(err)
	if code == exitcode.Success {
		return int(code)
	}
	for _, line := range strings.Split(err.Error(), "\n") {
		if line != "" {
			ui.PrintError(line)
		}
	}
	return int(code)
}
