package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = Object{"key": String("value")}
}

func TestObjectSortedKeys(t *testing.T) {
	obj := Object{
		"zebra":  String("z"),
		"apple":  String("a"),
		"banana": String("b"),
	}

	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
}

func TestObjectSortedKeysUTF16Order(t *testing.T) {
	// U+FF61 sorts after U+1F600 in UTF-8 bytes but before it in UTF-16
	// code units (the emoji is encoded as a 0xD83D surrogate).
	obj := Object{
		"\U0001F600": Int(1),
		"\uFF61":     Int(2),
	}

	assert.Equal(t, []string{"\U0001F600", "\uFF61"}, obj.SortedKeys())
}

func TestDecodeKeepsIntAndFloatApart(t *testing.T) {
	_, err := Decode([]byte(`{"big": 1e400}`))
	require.Error(t, err, "1e400 overflows float64")

	v, err := Decode([]byte(`{"num_lados": 6, "lado": 2.0, "apotema": 1.5e1}`))
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, Int(6), obj["num_lados"])
	assert.Equal(t, Float(2), obj["lado"])
	assert.Equal(t, Float(15), obj["apotema"])
}

func TestDecodeAllKinds(t *testing.T) {
	v, err := Decode([]byte(`[null, true, "x", 1, 1.25, [], {}]`))
	require.NoError(t, err)

	expected := Array{Null{}, Bool(true), String("x"), Int(1), Float(1.25), Array{}, Object{}}
	assert.True(t, Equal(expected, v), "got %#v", v)
}

func TestMarshalFloatKeepsFraction(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"whole float", Float(3), "3.0"},
		{"fraction", Float(12.57), "12.57"},
		{"negative", Float(-0.5), "-0.5"},
		{"tiny", Float(1e-7), "1e-07"},
		{"small positional", Float(0.0001), "0.0001"},
		{"below positional", Float(0.00001), "1e-05"},
		{"large whole", Float(1e8), "100000000.0"},
		{"million", Float(2.5e6), "2500000.0"},
		{"largest positional", Float(1234567890123456), "1234567890123456.0"},
		{"huge", Float(1e16), "1e+16"},
		{"zero", Float(0), "0.0"},
		{"int", Int(3), "3"},
		{"string", String("círculo"), `"círculo"`},
		{"null", Null{}, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(b))
		})
	}
}

func TestMarshalRejectsNaN(t *testing.T) {
	_, err := Marshal(Float(nan()))
	assert.Error(t, err)
}

func TestObjectJSONRoundTrip(t *testing.T) {
	obj := Object{"radio": Float(2), "num_lados": Int(6), "tags": Array{String("a")}}

	b, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"num_lados":6,"radio":2.0,"tags":["a"]}`, string(b))

	var back Object
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, Equal(obj, back))
}

func TestObjectUnmarshalRejectsNonObject(t *testing.T) {
	var obj Object
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &obj))
}

func TestNumber(t *testing.T) {
	n, ok := Number(Int(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)

	n, ok = Number(Float(2.5))
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	_, ok = Number(String("N/D"))
	assert.False(t, ok)

	_, ok = Number(nil)
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	orig := Object{"inner": Object{"a": Int(1)}, "list": Array{Int(1)}}
	cp := orig.Clone()

	cp["inner"].(Object)["a"] = Int(99)
	cp["list"].(Array)[0] = Int(99)

	assert.Equal(t, Int(1), orig["inner"].(Object)["a"])
	assert.Equal(t, Int(1), orig["list"].(Array)[0])
	assert.Nil(t, Object(nil).Clone())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(2), Int(2)))
	assert.False(t, Equal(Int(2), Float(2)), "Int and Float are distinct values")
	assert.True(t, Equal(Float(nan()), Float(nan())))
	assert.False(t, Equal(Object{"a": Int(1)}, Object{"b": Int(1)}))
	assert.False(t, Equal(Array{Int(1)}, Array{Int(1), Int(2)}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Null{}))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{"a": 1, "b": 2.5, "c": []any{"x", nil}})
	require.NoError(t, err)

	expected := Object{"a": Int(1), "b": Float(2.5), "c": Array{String("x"), Null{}}}
	assert.True(t, Equal(expected, v))

	_, err = FromAny(struct{}{})
	assert.Error(t, err)
}

func nan() float64 { return math.NaN() }
