package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSome_RejectsNaNAndInf(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid)
	assert.False(t, Some(math.Inf(1)).Valid)
	assert.False(t, Some(math.Inf(-1)).Valid)

	v := Some(0)
	f, ok := v.Get()
	assert.True(t, ok, "measured zero must stay present")
	assert.Equal(t, 0.0, f)
}

func TestValue_JSON(t *testing.T) {
	type doc struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}
	data, err := json.Marshal(doc{A: Some(1.5), B: None()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var got doc
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Some(1.5), got.A)
	assert.False(t, got.B.Valid)
}

func TestValue_StringAndOr(t *testing.T) {
	assert.Equal(t, "N/A", None().String())
	assert.Equal(t, "3.14", Some(3.14159).String())
	assert.Equal(t, 7.0, None().Or(7))
	assert.Equal(t, 2.0, Some(2).Or(7))
}
