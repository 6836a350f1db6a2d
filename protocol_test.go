package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseJoin(t *testing.T) {
	tcases := map[string]struct {
		raw       string
		want      JoinRequest
		expectErr bool
	}{
		"legacy_string": {
			raw:  `"alice"`,
			want: JoinRequest{Username: "alice", Avatar: "😀", ButtSize: "Regular"},
		},
		"full_object": {
			raw:  `{"username":"bob","avatar":"🦊","buttSize":"Enormous"}`,
			want: JoinRequest{Username: "bob", Avatar: "🦊", ButtSize: "Enormous"},
		},
		"object_defaults": {
			raw:  `{"username":"carol"}`,
			want: JoinRequest{Username: "carol", Avatar: "😀", ButtSize: "Regular"},
		},
		"empty_fields_take_defaults": {
			raw:  `{"username":"dave","avatar":"","buttSize":null}`,
			want: JoinRequest{Username: "dave", Avatar: "😀", ButtSize: "Regular"},
		},
		"missing_username_accepted": {
			raw:  `{"avatar":"🐼"}`,
			want: JoinRequest{Username: "", Avatar: "🐼", ButtSize: "Regular"},
		},
		"numeric_username_coerced": {
			raw:  `{"username":42}`,
			want: JoinRequest{Username: "42", Avatar: "😀", ButtSize: "Regular"},
		},
		"image_path_avatar": {
			raw:  `{"username":"erin","avatar":"images/erin.png"}`,
			want: JoinRequest{Username: "erin", Avatar: "images/erin.png", ButtSize: "Regular"},
		},
		"empty":         {raw: ``, expectErr: true},
		"number":        {raw: `7`, expectErr: true},
		"array":         {raw: `["alice"]`, expectErr: true},
		"null":          {raw: `null`, expectErr: true},
		"broken_object": {raw: `{"username":`, expectErr: true},
	}

	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			got, err := parseJoin(json.RawMessage(tc.raw))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCoerceString(t *testing.T) {
	tcases := map[string]struct {
		raw       string
		want      string
		expectErr bool
	}{
		"string":  {raw: `"Cola"`, want: "Cola"},
		"number":  {raw: `12.5`, want: "12.5"},
		"boolean": {raw: `true`, want: "true"},
		"null":    {raw: `null`, want: ""},
		"absent":  {raw: ``, want: ""},
		"padded":  {raw: "  \"Orange\" ", want: "Orange"},
		"object":  {raw: `{"a":1}`, expectErr: true},
		"array":   {raw: `[1]`, expectErr: true},
		"garbage": {raw: `nope`, expectErr: true},
	}

	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			got, err := coerceString(json.RawMessage(tc.raw))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormatChat(t *testing.T) {
	require.Equal(t, "I have had 3 sodas", formatChat("I have had {x} sodas", 3))
	require.Equal(t, "Cheers!", formatChat("Cheers!", 3))
	require.Equal(t, "0{x}", formatChat("{x}{x}", 0))
	require.Equal(t, "{ x } 12", formatChat("{ x } {x}", 12))
	require.Equal(t, "", formatChat("", 1))
}

func TestServerMessageEncoding(t *testing.T) {
	data, err := json.Marshal(ServerMessage{
		Event: eventSodaDrunk,
		Data:  SodaDrunk{PlayerID: "a", Username: "alice", SodaType: "Cola", NewCount: 2},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"soda-drunk","data":{"playerId":"a","username":"alice","sodaType":"Cola","newCount":2}}`, string(data))

	data, err = json.Marshal(ServerMessage{
		Event: eventPlayerJoined,
		Data:  Player{ID: "a", Username: "alice", Avatar: "😀", ButtSize: "Regular"},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"player-joined","data":{"id":"a","username":"alice","avatar":"😀","buttSize":"Regular","sodaCount":0}}`, string(data))
}
