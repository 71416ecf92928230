package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.True(t, v.IsAbsent())
	assert.Equal(t, KindAbsent, v.Kind())
	assert.Equal(t, Absent(), v)
}

func TestAccessors(t *testing.T) {
	s, ok := String("hi").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = Int(1).AsString()
	assert.False(t, ok)

	n, ok := Int(42).AsInt()
	assert.True(t, ok)
	assert.EqualValues(t, 42, n)
}

func TestEmptyStringIsPresent(t *testing.T) {
	v := String("")
	assert.False(t, v.IsAbsent())
	assert.Equal(t, KindString, v.Kind())
}

func TestValueMarshal(t *testing.T) {
	b, err := String("a").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(b))

	b, err = Null().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))

	_, err = Absent().MarshalJSON()
	assert.ErrorIs(t, err, ErrAbsentValue)
}

func TestValueUnmarshal(t *testing.T) {
	var v Value
	require.NoError(t, v.UnmarshalJSON([]byte(`7`)))
	assert.Equal(t, Int(7), v)

	require.NoError(t, v.UnmarshalJSON([]byte(`"x"`)))
	assert.Equal(t, String("x"), v)

	assert.ErrorIs(t, v.UnmarshalJSON([]byte(`true`)), ErrUnsupportedValue)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "absent", KindAbsent.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
