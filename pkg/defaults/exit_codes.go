package defaults

// Exit codes for the CLI.
const (
	ExitSuccess       = 0 // Payloads written
	ExitGenerateError = 1 // Unsupported type, rule or unsatisfiable constraint
	ExitUserError     = 2 // Invalid arguments, schema, rule table or configuration
	ExitIOError       = 3 // Reading inputs or writing outputs failed
	ExitInternalError = 4 // Unexpected internal error
)
