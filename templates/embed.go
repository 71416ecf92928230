// Package templates embeds the built-in output templates so that they ship
// inside the binary.
//
// Usage:
//
//	data, _ := templates.FS.ReadFile("output/curl.tmpl")
package templates

import "embed"

// FS holds output/<name>.tmpl, one file per -template-builtin name.
//
//go:embed output/*.tmpl
var FS embed.FS
