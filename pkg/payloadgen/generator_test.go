package payloadgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
	"github.com/waftester/tdgen/pkg/synth"
)

func loginSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sc, err := schema.Parse([]byte(`{"email":{"type":"email"},"password":{"type":"string","min_length":8}}`))
	require.NoError(t, err)
	return sc
}

func loginRules(t *testing.T) *rules.Table {
	t.Helper()
	tbl, err := rules.Parse([]byte(`{"email":["empty","missing"],"string":["shorter_than_min"]}`))
	require.NoError(t, err)
	return tbl
}

func rendered(ps []*payload.Payload) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func TestLoginScenario(t *testing.T) {
	b := NewBuilder(nil, Options{})

	valid, err := b.BuildValid(loginSchema(t))
	require.NoError(t, err)
	assert.Equal(t, `{"email":"email@email.com","password":"aaaaaaaa"}`, valid.String())

	invalid, err := b.BuildInvalidSet(loginSchema(t), loginRules(t))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`{"email":"","password":"aaaaaaaa"}`,
		`{"password":"aaaaaaaa"}`,
		`{"email":"email@email.com","password":"aaaaaaa"}`,
	}, rendered(invalid))
}

func TestBuildValidHasExactlySchemaFields(t *testing.T) {
	sc := schema.MustNew(
		schema.Field{Name: "age", Type: schema.TypeInt, Constraints: map[string]any{"min": 18}},
		schema.Field{Name: "email", Type: schema.TypeEmail},
		schema.Field{Name: "nick", Type: schema.TypeString},
	)
	p, err := NewBuilder(nil, Options{}).BuildValid(sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "email", "nick"}, p.Keys())
	assert.Equal(t, `{"age":18,"email":"email@email.com","nick":"a"}`, p.String())
}

func TestBuildValidUnsupportedTypeAborts(t *testing.T) {
	sc := schema.MustNew(
		schema.Field{Name: "email", Type: schema.TypeEmail},
		schema.Field{Name: "born", Type: "date"},
	)
	b := NewBuilder(nil, Options{})

	p, err := b.BuildValid(sc)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, synth.ErrUnsupportedType)

	set, err := b.BuildInvalidSet(sc, rules.Default())
	assert.Nil(t, set)
	assert.ErrorIs(t, err, synth.ErrUnsupportedType)
}

func TestInvalidCountMatchesTable(t *testing.T) {
	sc := schema.MustNew(
		schema.Field{Name: "email", Type: schema.TypeEmail},
		schema.Field{Name: "password", Type: schema.TypeString, Constraints: map[string]any{"min_length": 8}},
		schema.Field{Name: "nickname", Type: schema.TypeString},
		schema.Field{Name: "age", Type: schema.TypeInt},
	)
	tbl := rules.Default()

	set, err := NewBuilder(nil, Options{}).BuildInvalidSet(sc, tbl)
	require.NoError(t, err)

	want := Expected(sc, tbl)
	assert.Equal(t, 6+4+4, want)
	assert.Len(t, set, want)
}

func TestEachInvalidBreaksExactlyOneField(t *testing.T) {
	sc := loginSchema(t)
	b := NewBuilder(nil, Options{})
	res, err := b.BuildCases(sc, rules.Default())
	require.NoError(t, err)

	base := res.Baseline.Payload
	for _, c := range res.Invalid {
		t.Run(c.Label(), func(t *testing.T) {
			var diff []string
			for _, k := range base.Keys() {
				if c.Payload.Get(k) != base.Get(k) {
					diff = append(diff, k)
				}
			}
			for _, k := range c.Payload.Keys() {
				assert.True(t, base.Has(k), "unexpected key %q", k)
			}
			assert.Equal(t, []string{c.Field}, diff)

			if c.Rule == rules.Missing {
				assert.False(t, c.Payload.Has(c.Field))
				assert.Equal(t, base.Len()-1, c.Payload.Len())
			} else {
				assert.Equal(t, base.Keys(), c.Payload.Keys(), "key order is kept")
			}
		})
	}
}

func TestTypeMissingFromTableContributesNothing(t *testing.T) {
	sc := schema.MustNew(schema.Field{Name: "age", Type: schema.TypeInt})
	set, err := NewBuilder(nil, Options{}).BuildInvalidSet(sc, rules.Default())
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestEmptyRuleListContributesNothing(t *testing.T) {
	tbl := rules.NewTable()
	tbl.Set(schema.TypeEmail)
	set, err := NewBuilder(nil, Options{}).BuildInvalidSet(loginSchema(t), tbl)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestEmptySchema(t *testing.T) {
	sc := schema.MustNew()
	b := NewBuilder(nil, Options{})
	p, err := b.BuildValid(sc)
	require.NoError(t, err)
	assert.Equal(t, `{}`, p.String())

	set, err := b.BuildInvalidSet(sc, rules.Default())
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestUnsupportedRuleAborts(t *testing.T) {
	tbl := rules.NewTable()
	tbl.Set(schema.TypeEmail, rules.Empty, rules.ShorterThanMin)

	set, err := NewBuilder(nil, Options{}).BuildInvalidSet(loginSchema(t), tbl)
	assert.Nil(t, set)
	require.Error(t, err)

	var ure *synth.UnsupportedRuleError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "email", ure.Field)
	assert.Equal(t, rules.ShorterThanMin, ure.Rule)
}

func TestShorterThanMinZeroAborts(t *testing.T) {
	sc := schema.MustNew(schema.Field{Name: "p", Type: schema.TypeString, Constraints: map[string]any{"min_length": 0}})
	tbl := rules.NewTable()
	tbl.Set(schema.TypeString, rules.ShorterThanMin)

	_, err := NewBuilder(nil, Options{}).BuildInvalidSet(sc, tbl)
	assert.ErrorIs(t, err, synth.ErrUnsatisfiableRule)
}

func TestDuplicateRulesYieldDuplicatePayloads(t *testing.T) {
	tbl := rules.NewTable()
	tbl.Set(schema.TypeEmail, rules.Empty, rules.Empty)
	set, err := NewBuilder(nil, Options{}).BuildInvalidSet(loginSchema(t), tbl)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.True(t, set[0].Equal(set[1]))
	assert.NotSame(t, set[0], set[1])
}

func TestIdempotent(t *testing.T) {
	b := NewBuilder(nil, Options{})
	first, err := b.BuildInvalidSet(loginSchema(t), rules.Default())
	require.NoError(t, err)
	second, err := b.BuildInvalidSet(loginSchema(t), rules.Default())
	require.NoError(t, err)
	assert.Equal(t, rendered(first), rendered(second))
}

func TestPayloadsDoNotShareStorage(t *testing.T) {
	res, err := NewBuilder(nil, Options{}).BuildCases(loginSchema(t), loginRules(t))
	require.NoError(t, err)

	before := res.Baseline.Payload.String()
	res.Invalid[0].Payload.Set("email", payload.String("changed"))
	res.Invalid[1].Payload.Set("extra", payload.Int(1))

	assert.Equal(t, before, res.Baseline.Payload.String())
	assert.Equal(t, `{"email":"email@email.com","password":"aaaaaaa"}`, res.Invalid[2].Payload.String())
}

func TestMissingOnAbsentFieldIsNoop(t *testing.T) {
	s := synth.New()
	require.NoError(t, s.RegisterType("optional", func(schema.Field) (payload.Value, error) {
		return payload.Absent(), nil
	}))
	sc := schema.MustNew(
		schema.Field{Name: "a", Type: schema.TypeEmail},
		schema.Field{Name: "hint", Type: "optional"},
	)
	tbl := rules.NewTable()
	tbl.Set("optional", rules.Missing)

	res, err := NewBuilder(s, Options{}).BuildCases(sc, tbl)
	require.NoError(t, err)
	require.Len(t, res.Invalid, 1)
	assert.Equal(t, `{"a":"email@email.com"}`, res.Invalid[0].Payload.String())
	assert.True(t, res.Invalid[0].Payload.Equal(res.Baseline.Payload))
}

func TestNullRuleKeepsKey(t *testing.T) {
	tbl := rules.NewTable()
	tbl.Set(schema.TypeString, rules.Null)
	set, err := NewBuilder(nil, Options{}).BuildInvalidSet(loginSchema(t), tbl)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, `{"email":"email@email.com","password":null}`, set[0].String())
}
