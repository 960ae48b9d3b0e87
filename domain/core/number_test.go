package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloatTag(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"NaN", math.NaN()},
		{"nan", math.NaN()},
		{"Infinity", math.Inf(1)},
		{"+inf", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{" 1.5 ", 1.5},
	}
	for _, tt := range tests {
		got, err := ParseFloatTag(tt.in)
		require.NoError(t, err, tt.in)
		if math.IsNaN(tt.want) {
			assert.True(t, math.IsNaN(got), tt.in)
		} else {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
	_, err := ParseFloatTag("far")
	assert.Error(t, err)
}

func TestFloatDecodesTagsAndNull(t *testing.T) {
	var doc struct {
		A *Float           `json:"a"`
		B *Float           `json:"b"`
		M map[string]Float `json:"m"`
	}
	require.NoError(t, json.Unmarshal(QuoteNonFinite([]byte(`{"a": NaN, "b": null, "m": {"x": -Infinity, "y": "2.5", "z": null, "w": 3}}`)), &doc))

	require.NotNil(t, doc.A)
	assert.True(t, math.IsNaN(float64(*doc.A)))
	assert.Nil(t, doc.B)
	assert.Nil(t, doc.B.Ptr())
	assert.True(t, math.IsInf(float64(doc.M["x"]), -1))
	assert.Equal(t, Float(2.5), doc.M["y"])
	assert.True(t, math.IsNaN(float64(doc.M["z"])))
	assert.Equal(t, Float(3), doc.M["w"])

	var bad Float
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`"far"`), &bad))
}

func TestNumberKeepsFiniteTextExact(t *testing.T) {
	var m map[string]Number
	require.NoError(t, json.Unmarshal(QuoteNonFinite([]byte(`{"id": 12345678901234567890, "s": "0.17", "nan": NaN, "inf": "Infinity", "neg": -Infinity, "nil": null}`)), &m))

	assert.Equal(t, json.Number("12345678901234567890"), m["id"].JSONNumber())
	assert.Equal(t, json.Number("0.17"), m["s"].JSONNumber())
	assert.Equal(t, json.Number("NaN"), m["nan"].JSONNumber())
	assert.Equal(t, json.Number("+Inf"), m["inf"].JSONNumber())
	assert.Equal(t, json.Number("-Inf"), m["neg"].JSONNumber())
	assert.Equal(t, json.Number(""), m["nil"].JSONNumber())

	v, err := m["inf"].JSONNumber().Float64()
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))

	var bad Number
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}
