package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandValid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"start bare", `{"type":"START"}`},
		{"start with payload", `{"type":"START","payload":{"stage":"stage2","seed":"abc"}}`},
		{"attach", `{"type":"ATTACH","session":"s1"}`},
		{"input", `{"type":"INPUT","session":"s1","payload":{"dx":1,"dy":-1,"jump":true}}`},
		{"stop", `{"type":"STOP","session":"s1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := ParseCommand([]byte(tc.raw))
			require.NoError(t, err)
			assert.NotEmpty(t, cmd.Type)
		})
	}
}

func TestParseCommandRejected(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"unknown type", `{"type":"FLY"}`},
		{"missing type", `{"session":"s1"}`},
		{"input without session", `{"type":"INPUT","payload":{"dx":0,"dy":0}}`},
		{"input dx out of range", `{"type":"INPUT","session":"s1","payload":{"dx":2,"dy":0}}`},
		{"input missing dy", `{"type":"INPUT","session":"s1","payload":{"dx":0}}`},
		{"input extra field", `{"type":"INPUT","session":"s1","payload":{"dx":0,"dy":0,"teleport":true}}`},
		{"attach without session", `{"type":"ATTACH"}`},
		{"stop without session", `{"type":"STOP"}`},
		{"start extra payload field", `{"type":"START","payload":{"stage":"s","cheat":true}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCommand([]byte(tc.raw))
			assert.Error(t, err)
		})
	}
}

func TestParseInput(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"type":"INPUT","session":"s1","payload":{"dx":-1,"dy":0,"enter":true}}`))
	require.NoError(t, err)

	in, err := ParseInput(cmd.Payload)
	require.NoError(t, err)
	assert.Equal(t, -1, in.Dx)
	assert.Equal(t, 0, in.Dy)
	assert.True(t, in.Enter)
	assert.False(t, in.Jump)
}

func TestParseStartEmptyPayload(t *testing.T) {
	st, err := ParseStart(nil)
	require.NoError(t, err)
	assert.Empty(t, st.Stage)
	assert.Empty(t, st.Seed)
}
