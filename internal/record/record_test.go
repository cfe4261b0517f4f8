package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arealog/internal/value"
)

func circle() Record {
	return Record{
		Timestamp:  "05/03/2024 14:30:00",
		Category:   "circulo",
		Value:      value.Float(12.57),
		Parameters: value.Object{"radio": value.Float(2)},
	}
}

func TestNewFormatsTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	params := value.Object{"lado": value.Float(3)}

	r := New(now, "cuadrado", 9, params)

	assert.Equal(t, "05/03/2024 14:30:00", r.Timestamp)
	assert.Equal(t, "cuadrado", r.Category)
	assert.Equal(t, value.Float(9), r.Value)

	params["lado"] = value.Float(100)
	assert.Equal(t, value.Float(3), r.Parameters["lado"], "New must copy params")
}

func TestNewNilParams(t *testing.T) {
	r := New(time.Now(), "cubo", 6, nil)
	assert.NotNil(t, r.Parameters)
	assert.Empty(t, r.Parameters)
}

func TestTime(t *testing.T) {
	got, err := circle().Time(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), got)

	_, err = Record{Timestamp: "2024-03-05"}.Time(nil)
	assert.Error(t, err)
}

func TestMarshalJSONKeyOrder(t *testing.T) {
	b, err := json.Marshal(circle())
	require.NoError(t, err)
	assert.Equal(t,
		`{"fecha":"05/03/2024 14:30:00","figura":"circulo","area":12.57,"parametros":{"radio":2.0}}`,
		string(b))
}

func TestMarshalIndentGolden(t *testing.T) {
	b, err := circle().MarshalIndent("    ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "record_circulo", b)
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	r := Record{Category: "a<b>&c"}
	b, err := r.MarshalIndent("")
	require.NoError(t, err)
	assert.Contains(t, string(b), `"a<b>&c"`)
}

func TestUnmarshalPreservesExtraKeys(t *testing.T) {
	in := `{"fecha":"01/01/2024 00:00:00","figura":"cubo","area":24.0,"parametros":{"lado":2},"nota":"manual","usuario":{"id":7}}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(in), &r))

	assert.Equal(t, "cubo", r.Category)
	assert.Equal(t, value.Int(2), r.Parameters["lado"])
	assert.Equal(t, value.String("manual"), r.Extra["nota"])

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestUnmarshalNonNumericArea(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"figura":"elipse","area":"N/D"}`), &r))

	_, ok := r.Number()
	assert.False(t, ok)
	assert.Equal(t, value.String("N/D"), r.Value)
}

func TestUnmarshalKnownKeyWithWrongTypeRoundTrips(t *testing.T) {
	in := `{"fecha":17,"figura":"","area":1,"parametros":[1,2]}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	assert.Empty(t, r.Timestamp)
	assert.Empty(t, r.Category)
	assert.Nil(t, r.Parameters)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestUnmarshalRejectsNonObject(t *testing.T) {
	var r Record
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &r))
}

func TestCloneIsIndependent(t *testing.T) {
	orig := circle()
	cp := orig.Clone()
	cp.Parameters["radio"] = value.Float(99)

	assert.Equal(t, value.Float(2), orig.Parameters["radio"])
	assert.True(t, orig.Equal(circle()))
	assert.False(t, orig.Equal(cp))
}

func TestCloneAllNeverNil(t *testing.T) {
	out := CloneAll(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestObjectIncludesKnownKeys(t *testing.T) {
	obj := circle().Object()
	assert.Equal(t, value.String("circulo"), obj[KeyCategory])
	assert.Equal(t, value.Float(12.57), obj[KeyValue])
	assert.Len(t, obj, 4)
}
