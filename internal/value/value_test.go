package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null{}, false},
		{"undefined", Undefined{}, false},
		{"false", Bool(false), false},
		{"zero", Number(0), false},
		{"floatZero", Float(0), false},
		{"nan", Float(nanValue()), false},
		{"emptyString", String(""), false},
		{"nonEmptyString", String("x"), true},
		{"array", NewArray(), true},
		{"object", NewObject(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Truthy(c.v))
		})
	}
}

func TestStrictEqualReflexivity(t *testing.T) {
	vals := []Value{
		Number(1), Float(1.5), NewBigInt(7), String("a"), Bool(true),
		Null{}, Undefined{}, NewArray(Number(1)), NewObject(), NewMap(), NewSet(),
		Node{ID: 3}, Promise{ID: 1}, Constructor{Name: "String"},
	}
	for _, v := range vals {
		assert.True(t, StrictEqual(v, v), "%T", v)
	}
}

func TestStrictEqualNumberFloatMix(t *testing.T) {
	assert.True(t, StrictEqual(Number(3), Float(3)))
	assert.True(t, StrictEqual(Float(3), Number(3)))
	assert.False(t, StrictEqual(Number(3), Float(3.1)))
}

func TestLooseEqualNullUndefined(t *testing.T) {
	assert.True(t, LooseEqual(Null{}, Undefined{}))
	assert.True(t, LooseEqual(Undefined{}, Null{}))
	assert.False(t, LooseEqual(Null{}, Number(0)))
}

func TestLooseEqualNumericStringCross(t *testing.T) {
	assert.True(t, LooseEqual(Number(1), String("1")))
	assert.True(t, LooseEqual(String("1"), Number(1)))
	assert.True(t, LooseEqual(Bool(true), Number(1)))
}

func TestLooseEqualBigIntString(t *testing.T) {
	b := NewBigInt(42)
	assert.True(t, LooseEqual(b, String("42")))
	assert.True(t, LooseEqual(b, Number(42)))
	assert.False(t, LooseEqual(b, Number(43)))
}

func TestAddStringConcat(t *testing.T) {
	v, err := Add(String("a"), Number(1))
	require.NoError(t, err)
	assert.Equal(t, String("a1"), v)
}

func TestAddBigIntMixFails(t *testing.T) {
	_, err := Add(NewBigInt(1), Number(2))
	assert.ErrorIs(t, err, ErrBigIntMix)
}

func TestAddBigIntBigInt(t *testing.T) {
	v, err := Add(NewBigInt(1), NewBigInt(2))
	require.NoError(t, err)
	bi, ok := v.(BigInt)
	require.True(t, ok)
	assert.Equal(t, "3", bi.V.String())
}

func TestAddIntegerOverflowFallsBackToFloat(t *testing.T) {
	v, err := Add(Number(1<<62), Number(1<<62))
	require.NoError(t, err)
	_, isFloat := v.(Float)
	assert.True(t, isFloat)
}

func TestFormatFloatNoTrailingZeros(t *testing.T) {
	assert.Equal(t, "3", FormatFloat(3.0))
	assert.Equal(t, "3.5", FormatFloat(3.5))
	assert.Equal(t, "NaN", FormatFloat(nanValue()))
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestObjectOrderedKeysHidesExpando(t *testing.T) {
	o := NewObject()
	o.Set("a", Number(1))
	o.Set("__hidden", Number(2))
	o.Set("b", Number(3))
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	assert.Equal(t, []string{"a", "__hidden", "b"}, o.AllKeys())
}

func TestMapIdentitySensitiveKeys(t *testing.T) {
	m := NewMap()
	k1 := NewArray()
	k2 := NewArray()
	m.Set(k1, String("first"))
	m.Set(k2, String("second"))
	v, ok := m.Get(k1)
	require.True(t, ok)
	assert.Equal(t, String("first"), v)
	v2, ok := m.Get(k2)
	require.True(t, ok)
	assert.Equal(t, String("second"), v2)
}

func TestSetDedup(t *testing.T) {
	s := NewSet()
	assert.True(t, s.Add(Number(1)))
	assert.False(t, s.Add(Number(1)))
	assert.Equal(t, 1, len(s.Items))
}
