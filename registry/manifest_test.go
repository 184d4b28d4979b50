package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexiblePoints(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "number", raw: `{"points": 10}`, want: 10},
		{name: "string", raw: `{"points": "25"}`, want: 25},
		{name: "string with whitespace", raw: `{"points": " 7 "}`, want: 7},
		{name: "unparseable string", raw: `{"points": "lots"}`, want: 0},
		{name: "wrong type", raw: `{"points": [1,2]}`, want: 0},
		{name: "missing", raw: `{}`, want: 0},
		{name: "negative number", raw: `{"points": -5}`, want: 0},
		{name: "negative string", raw: `{"points": "-5"}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Manifest
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Equal(t, tt.want, int(m.Points))
		})
	}
}

func TestManifestRoundTripFields(t *testing.T) {
	raw := `{
		"test_case_name": "tc_register_user",
		"stages": 3,
		"inputs": ["1", "alice", "quit"],
		"points": "15",
		"timestamp": "20250101_120000"
	}`
	var m Manifest
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, "tc_register_user", m.TestCaseName)
	assert.Equal(t, 3, m.Stages)
	assert.Equal(t, []string{"1", "alice", "quit"}, m.Inputs)
	assert.Equal(t, 15, int(m.Points))
	assert.Equal(t, "20250101_120000", m.Timestamp)
}
