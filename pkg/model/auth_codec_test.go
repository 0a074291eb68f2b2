// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/swsdk/pkg/serializer"
)

func TestBasicAuthProperties_RoundTrip(t *testing.T) {
	in := BasicAuthProperties{Username: "admin", Password: "s3cret"}

	tests := []struct {
		name     string
		s        serializer.Serializer
		wantKey  string
		notWants []string
	}{
		{name: "json", s: serializer.JSON(), wantKey: `"password":"s3cret"`, notWants: []string{`"Password"`, `"pass"`}},
		{name: "yaml", s: serializer.YAML(), wantKey: "password: s3cret", notWants: []string{"Password:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.s.Marshal(in)
			require.NoError(t, err)

			assert.Contains(t, string(data), tt.wantKey)
			for _, nw := range tt.notWants {
				assert.NotContains(t, string(data), nw)
			}

			var out BasicAuthProperties
			require.NoError(t, tt.s.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestBasicAuthProperties_EmptyPasswordKeepsKey(t *testing.T) {
	data, err := serializer.JSON().Marshal(BasicAuthProperties{Username: "admin"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"password":""`)
}

func TestAuthDefinition_RoundTrip(t *testing.T) {
	defs := []AuthDefinition{
		{Name: "basic", Properties: &BasicAuthProperties{Username: "u", Password: "p"}},
		{Name: "basic-explicit", Scheme: AuthSchemeBasic, Properties: &BasicAuthProperties{
			Username: "u", Password: "p", Metadata: map[string]string{"realm": "pets"},
		}},
		{Name: "bearer", Scheme: AuthSchemeBearer, Properties: &BearerAuthProperties{Token: "abc"}},
		{Name: "oauth2", Scheme: AuthSchemeOAuth2, Properties: &OAuth2AuthProperties{
			Authority:    "https://idp.example.com/token",
			GrantType:    GrantTypeClientCredentials,
			ClientID:     "client",
			ClientSecret: "secret",
			Scopes:       []string{"read", "write"},
			Audiences:    []string{"api"},
		}},
		{Name: "secret", Scheme: AuthSchemeBearer, Properties: SecretProperties("petstore-token")},
	}

	for _, s := range []serializer.Serializer{serializer.JSON(), serializer.YAML()} {
		for _, in := range defs {
			t.Run(s.Format()+"/"+in.Name, func(t *testing.T) {
				data, err := s.Marshal(in)
				require.NoError(t, err)

				var out AuthDefinition
				require.NoError(t, s.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestAuthDefinition_UnmarshalJSON_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AuthProperties
		wantErr bool
	}{
		{
			name:  "scheme omitted defaults to basic",
			input: `{"name":"a","properties":{"username":"u","password":"p"}}`,
			want:  &BasicAuthProperties{Username: "u", Password: "p"},
		},
		{
			name:  "bearer",
			input: `{"name":"a","scheme":"bearer","properties":{"token":"t"}}`,
			want:  &BearerAuthProperties{Token: "t"},
		},
		{
			name:  "oauth2",
			input: `{"name":"a","scheme":"oauth2","properties":{"grantType":"password","clientId":"c","username":"u","password":"p"}}`,
			want:  &OAuth2AuthProperties{GrantType: GrantTypePassword, ClientID: "c", Username: "u", Password: "p"},
		},
		{
			name:  "secret string",
			input: `{"name":"a","scheme":"oauth2","properties":"my-secret"}`,
			want:  SecretProperties("my-secret"),
		},
		{
			name:  "no properties",
			input: `{"name":"a"}`,
			want:  nil,
		},
		{
			name:  "null properties",
			input: `{"name":"a","properties":null}`,
			want:  nil,
		},
		{
			name:    "unknown scheme with secret string",
			input:   `{"name":"a","scheme":"digest","properties":"s"}`,
			wantErr: true,
		},
		{
			name:    "unknown scheme without properties",
			input:   `{"name":"a","scheme":"digest"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var def AuthDefinition
			err := serializer.JSON().Unmarshal([]byte(tt.input), &def)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "digest")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, def.Properties)
		})
	}
}

func TestAuthDefinition_UnmarshalYAML_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AuthProperties
		wantErr bool
	}{
		{
			name:  "scheme omitted defaults to basic",
			input: "name: a\nproperties:\n  username: u\n  password: p\n",
			want:  &BasicAuthProperties{Username: "u", Password: "p"},
		},
		{
			name:  "bearer",
			input: "name: a\nscheme: bearer\nproperties:\n  token: t\n",
			want:  &BearerAuthProperties{Token: "t"},
		},
		{
			name:  "secret string",
			input: "name: a\nproperties: my-secret\n",
			want:  SecretProperties("my-secret"),
		},
		{
			name:  "null properties",
			input: "name: a\nproperties: ~\n",
			want:  nil,
		},
		{
			name:    "unknown scheme with secret string",
			input:   "name: a\nscheme: digest\nproperties: my-secret\n",
			wantErr: true,
		},
		{
			name:    "unknown scheme without properties",
			input:   "name: a\nscheme: digest\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var def AuthDefinition
			err := serializer.YAML().Unmarshal([]byte(tt.input), &def)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "digest")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, def.Properties)
		})
	}
}

func TestAuthDefinition_UnknownScheme(t *testing.T) {
	var def AuthDefinition

	err := serializer.JSON().Unmarshal([]byte(`{"name":"a","scheme":"digest","properties":{"x":1}}`), &def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest")

	err = serializer.YAML().Unmarshal([]byte("name: a\nscheme: digest\nproperties:\n  x: 1\n"), &def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest")
}

func TestAuthDefinition_YAMLSequenceProperties(t *testing.T) {
	var def AuthDefinition
	err := serializer.YAML().Unmarshal([]byte("name: a\nproperties:\n  - one\n"), &def)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "mapping"), "unexpected error: %v", err)
}

func TestAuthDefinition_InSlice(t *testing.T) {
	input := `[
		{"name":"a","properties":{"username":"u","password":"p"}},
		{"name":"b","scheme":"bearer","properties":{"token":"t"}}
	]`

	var defs []AuthDefinition
	require.NoError(t, serializer.JSON().Unmarshal([]byte(input), &defs))
	require.Len(t, defs, 2)
	assert.IsType(t, &BasicAuthProperties{}, defs[0].Properties)
	assert.IsType(t, &BearerAuthProperties{}, defs[1].Properties)
}
