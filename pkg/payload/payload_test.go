package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPreservesInsertionOrder(t *testing.T) {
	p := New(3)
	p.Set("zeta", String("z"))
	p.Set("alpha", Int(1))
	p.Set("mid", Null())

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Keys())

	// Overwriting keeps the original slot.
	p.Set("zeta", String("again"))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, p.Keys())
	assert.Equal(t, String("again"), p.Get("zeta"))
}

func TestSetAbsentDeletes(t *testing.T) {
	p := New(2)
	p.Set("email", String("email@email.com"))
	p.Set("password", String("aaaaaaaa"))

	p.Set("email", Absent())

	assert.False(t, p.Has("email"))
	assert.Equal(t, []string{"password"}, p.Keys())
	assert.True(t, p.Get("email").IsAbsent())
}

func TestDeleteMissingIsNoop(t *testing.T) {
	p := New(1)
	p.Set("a", Int(1))
	p.Delete("nope")
	assert.Equal(t, 1, p.Len())
}

func TestNullIsNotAbsent(t *testing.T) {
	p := New(1)
	p.Set("email", Null())
	require.True(t, p.Has("email"))
	assert.Equal(t, KindNull, p.Get("email").Kind())
	assert.Equal(t, `{"email":null}`, p.String())
}

func TestCloneIsIndependent(t *testing.T) {
	base := New(2)
	base.Set("email", String("email@email.com"))
	base.Set("password", String("aaaaaaaa"))

	c := base.Clone()
	c.Delete("email")
	c.Set("password", String("x"))
	c.Set("extra", Int(7))

	assert.Equal(t, `{"email":"email@email.com","password":"aaaaaaaa"}`, base.String())
	assert.Equal(t, `{"password":"x","extra":7}`, c.String())
}

func TestZeroPayloadUsable(t *testing.T) {
	var p Payload
	p.Set("a", String("b"))
	assert.Equal(t, `{"a":"b"}`, p.String())
}

func TestEqual(t *testing.T) {
	a := New(2)
	a.Set("x", Int(1))
	a.Set("y", Int(2))

	b := New(2)
	b.Set("y", Int(2))
	b.Set("x", Int(1))

	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(b), "order matters")
}

func TestMarshalJSON(t *testing.T) {
	p := New(4)
	p.Set("s", String(`quote " and ünïcode`))
	p.Set("n", Int(-3))
	p.Set("z", Null())

	b, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"s":"quote \" and ünïcode","n":-3,"z":null}`, string(b))
}

func TestMarshalEmpty(t *testing.T) {
	assert.Equal(t, `{}`, New(0).String())
}

func TestUnmarshalJSON(t *testing.T) {
	var p Payload
	require.NoError(t, p.UnmarshalJSON([]byte(`{"b":"x","a":5,"c":null}`)))
	assert.Equal(t, []string{"b", "a", "c"}, p.Keys())
	assert.Equal(t, Int(5), p.Get("a"))
	assert.Equal(t, Null(), p.Get("c"))
}

func TestUnmarshalRejectsNested(t *testing.T) {
	var p Payload
	err := p.UnmarshalJSON([]byte(`{"a":{"b":1}}`))
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	err = p.UnmarshalJSON([]byte(`{"a":1.5}`))
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	err = p.UnmarshalJSON([]byte(`[1]`))
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestMap(t *testing.T) {
	p := New(2)
	p.Set("a", String("x"))
	p.Set("b", Int(2))
	assert.Equal(t, map[string]any{"a": "x", "b": int64(2)}, p.Map())
}
