package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/tdgen/pkg/schema"
)

func TestParseJSON_Login(t *testing.T) {
	tbl, err := Parse([]byte(`{"email":["empty","missing"],"string":["shorter_than_min"]}`))
	require.NoError(t, err)

	assert.Equal(t, []schema.FieldType{schema.TypeEmail, schema.TypeString}, tbl.Types())
	rs, ok := tbl.Rules(schema.TypeEmail)
	require.True(t, ok)
	assert.Equal(t, []RuleName{Empty, Missing}, rs)
	assert.Equal(t, 1, tbl.Count(schema.TypeString))
	assert.Equal(t, 3, tbl.Total())

	_, ok = tbl.Rules(schema.TypeInt)
	assert.False(t, ok)
}

func TestParseYAML(t *testing.T) {
	tbl, err := Parse([]byte("string:\n  - too_long\n  - empty\nint:\n  - null\n  - below_min\n"))
	require.NoError(t, err)
	assert.Equal(t, []schema.FieldType{schema.TypeString, schema.TypeInt}, tbl.Types())
	rs, _ := tbl.Rules(schema.TypeInt)
	assert.Equal(t, []RuleName{Null, BelowMin}, rs)
}

func TestParseKeepsDuplicateRulesAndEmptyLists(t *testing.T) {
	tbl, err := Parse([]byte(`{"email":["empty","empty"],"int":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Count(schema.TypeEmail))
	rs, ok := tbl.Rules(schema.TypeInt)
	assert.True(t, ok)
	assert.Empty(t, rs)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"email":[`},
		{"list not array", `{"email":"empty"}`},
		{"non-string rule", `{"email":["empty",3]}`},
		{"empty rule", `{"email":[""]}`},
		{"duplicate type", `{"email":[],"email":[]}`},
		{"top level array", `["email"]`},
		{"yaml scalar list", "email: empty\n"},
		{"yaml nested list", "email:\n  - [a]\n"},
		{"yaml not mapping", "- email\n"},
		{"empty document", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRuleTableParse)
		})
	}
}

func TestDefault(t *testing.T) {
	tbl := Default()
	assert.Equal(t, []schema.FieldType{schema.TypeEmail, schema.TypeString}, tbl.Types())
	assert.Equal(t, 6, tbl.Count(schema.TypeEmail))
	assert.Equal(t, 4, tbl.Count(schema.TypeString))

	// Each call returns an independent table.
	tbl.Set(schema.TypeEmail)
	assert.Equal(t, 6, Default().Count(schema.TypeEmail))
}

func TestRulesReturnsCopy(t *testing.T) {
	tbl := Default()
	rs, _ := tbl.Rules(schema.TypeEmail)
	rs[0] = "tampered"
	again, _ := tbl.Rules(schema.TypeEmail)
	assert.Equal(t, InvalidFormat, again[0])
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Set(schema.TypeString, ShorterThanMin)
	tbl.Set(schema.TypeEmail, Empty, Missing)

	b, err := tbl.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"string":["shorter_than_min"],"email":["empty","missing"]}`, string(b))

	back, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, tbl.Types(), back.Types())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid_rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"email":["missing"]}`), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Total())

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("email: 3\n"), 0o644))
	_, err = LoadFile(bad)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, bad, pe.Source)
	assert.Equal(t, "email", pe.Type)

	_, err = LoadFile(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrRuleTableParse)
}
