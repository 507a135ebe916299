package jsoncodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

func TestMarshalUnmarshal(t *testing.T) {
	in := sample{Name: "clip", Count: 3, Score: 0.92}

	raw, err := Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestMarshalIndent(t *testing.T) {
	raw, err := MarshalIndent(map[string]string{"a": "b"}, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n")
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample{Name: "x"}))

	var out sample
	require.NoError(t, Decode(&buf, &out))
	assert.Equal(t, "x", out.Name)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid([]byte(`{"event_type":"pipeline.started"}`)))
	assert.False(t, Valid([]byte("not json")))
}
