package rules

import "github.com/waftester/tdgen/pkg/schema"

// Default returns the built-in rule table used when no rule file is given.
// It mirrors the conventional schemas/invalid_rules.json shipped with
// projects that use tdgen.
func Default() *Table {
	t := NewTable()
	t.Set(schema.TypeEmail,
		InvalidFormat,
		Empty,
		Missing,
		OnlySpaces,
		LeadingTrailingSpaces,
		TooLong,
	)
	t.Set(schema.TypeString,
		ShorterThanMin,
		Empty,
		OnlySpaces,
		TooLong,
	)
	return t
}
