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
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	sdkerrors "github.com/tombee/swsdk/pkg/errors"
)

// authDefinitionWire has the same fields as AuthDefinition without its
// codec methods, so encoding it does not recurse.
type authDefinitionWire struct {
	Name       string         `json:"name" yaml:"name"`
	Scheme     AuthScheme     `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Properties AuthProperties `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// checkScheme rejects schemes outside the closed set. An empty scheme means basic.
func checkScheme(scheme AuthScheme) error {
	if scheme != "" && !scheme.IsValid() {
		return fmt.Errorf("unknown auth scheme %q", scheme)
	}
	return nil
}

// newProperties returns an empty properties variant for scheme.
func newProperties(scheme AuthScheme) (AuthProperties, error) {
	switch scheme {
	case AuthSchemeBasic, "":
		return &BasicAuthProperties{}, nil
	case AuthSchemeBearer:
		return &BearerAuthProperties{}, nil
	case AuthSchemeOAuth2:
		return &OAuth2AuthProperties{}, nil
	default:
		return nil, checkScheme(scheme)
	}
}

// MarshalJSON implements json.Marshaler.
func (d AuthDefinition) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(authDefinitionWire(d))
}

// UnmarshalJSON implements json.Unmarshaler. The properties variant is
// chosen from the scheme; a string value becomes SecretProperties.
func (d *AuthDefinition) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name       string            `json:"name"`
		Scheme     AuthScheme        `json:"scheme"`
		Properties gojson.RawMessage `json:"properties"`
	}
	if err := gojson.Unmarshal(data, &wire); err != nil {
		return err
	}

	if err := checkScheme(wire.Scheme); err != nil {
		return sdkerrors.Wrapf(err, "auth definition %q", wire.Name)
	}

	props, err := decodeJSONProperties(wire.Scheme, wire.Properties)
	if err != nil {
		return sdkerrors.Wrapf(err, "auth definition %q", wire.Name)
	}

	d.Name = wire.Name
	d.Scheme = wire.Scheme
	d.Properties = props
	return nil
}

func decodeJSONProperties(scheme AuthScheme, raw []byte) (AuthProperties, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var secret string
		if err := gojson.Unmarshal(raw, &secret); err != nil {
			return nil, err
		}
		return SecretProperties(secret), nil
	}

	props, err := newProperties(scheme)
	if err != nil {
		return nil, err
	}
	if err := gojson.Unmarshal(raw, props); err != nil {
		return nil, err
	}
	return props, nil
}

// MarshalYAML implements yaml.Marshaler.
func (d AuthDefinition) MarshalYAML() (interface{}, error) {
	return authDefinitionWire(d), nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same variant dispatch
// as UnmarshalJSON.
func (d *AuthDefinition) UnmarshalYAML(value *yaml.Node) error {
	var wire struct {
		Name       string     `yaml:"name"`
		Scheme     AuthScheme `yaml:"scheme"`
		Properties yaml.Node  `yaml:"properties"`
	}
	if err := value.Decode(&wire); err != nil {
		return err
	}

	if err := checkScheme(wire.Scheme); err != nil {
		return sdkerrors.Wrapf(err, "auth definition %q", wire.Name)
	}

	props, err := decodeYAMLProperties(wire.Scheme, &wire.Properties)
	if err != nil {
		return sdkerrors.Wrapf(err, "auth definition %q", wire.Name)
	}

	d.Name = wire.Name
	d.Scheme = wire.Scheme
	d.Properties = props
	return nil
}

func decodeYAMLProperties(scheme AuthScheme, node *yaml.Node) (AuthProperties, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return SecretProperties(node.Value), nil
	case yaml.MappingNode:
		props, err := newProperties(scheme)
		if err != nil {
			return nil, err
		}
		if err := node.Decode(props); err != nil {
			return nil, err
		}
		return props, nil
	default:
		return nil, fmt.Errorf("line %d: properties must be a mapping or a secret name", node.Line)
	}
}
