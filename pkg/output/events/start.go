package events

// StartEvent is emitted once the schema and rule table are loaded and
// before any payload is built.
type StartEvent struct {
	BaseEvent
	Schema       string   `json:"schema"`
	Rules        string   `json:"rules"`
	Fields       int      `json:"fields"`
	RuleCount    int      `json:"rule_count"`
	Types        []string `json:"types,omitempty"`
	Plugins      []string `json:"plugins,omitempty"`
	Expected     int      `json:"expected_payloads"`
	IncludeValid bool     `json:"include_valid"`
}
