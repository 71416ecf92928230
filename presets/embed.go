// Package presets embeds example schemas that ship with the binary.
//
// Usage:
//
//	data, _ := presets.FS.ReadFile("login.json")
package presets

import (
	"embed"
	"io/fs"
	"strings"
)

// FS contains one schema per <name>.json file.
//
//go:embed *.json
var FS embed.FS

const ext = ".json"

// Names lists the bundled presets in name order.
func Names() []string {
	matches, _ := fs.Glob(FS, "*"+ext)
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimSuffix(m, ext)
	}
	return names
}

// Read returns the schema document of the named preset.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(name + ext)
}
