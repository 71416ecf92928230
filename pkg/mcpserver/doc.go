// Package mcpserver exposes tdgen as a Model Context Protocol (MCP) server so
// AI assistants can generate negative test payloads for a form or API schema
// without touching the filesystem.
//
// # Capabilities
//
//   - Tools:     generate_payloads, list_rules, validate_schema
//   - Resources: tdgen://version, tdgen://rules/default, tdgen://catalogue
//   - Prompts:   negative_tests
//
// Every tool is read-only and idempotent: the same schema and rule table
// always yield the same payloads and case ids.
//
// # Usage
//
//	srv := mcpserver.New(&mcpserver.Config{})
//	err := srv.RunStdio(ctx)
package mcpserver
