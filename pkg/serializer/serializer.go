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

// Package serializer provides the codecs the SDK uses to turn workflow
// documents into Go values and back.
package serializer

import (
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Serializer encodes and decodes values in one wire format.
type Serializer interface {
	// Format names the wire format ("json" or "yaml").
	Format() string

	// Marshal encodes v.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

const (
	// FormatJSON is the Format of the JSON serializer.
	FormatJSON = "json"
	// FormatYAML is the Format of the YAML serializer.
	FormatYAML = "yaml"
)

type jsonSerializer struct{}

// JSON returns a Serializer backed by github.com/goccy/go-json.
func JSON() Serializer { return jsonSerializer{} }

func (jsonSerializer) Format() string { return FormatJSON }

func (jsonSerializer) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (jsonSerializer) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

type yamlSerializer struct{}

// YAML returns a Serializer backed by gopkg.in/yaml.v3.
func YAML() Serializer { return yamlSerializer{} }

func (yamlSerializer) Format() string { return FormatYAML }

func (yamlSerializer) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (yamlSerializer) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

// ForFormat returns the serializer for a format name.
func ForFormat(format string) (Serializer, error) {
	switch format {
	case FormatJSON:
		return JSON(), nil
	case FormatYAML, "yml":
		return YAML(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (expected json or yaml)", format)
	}
}

// NormalizeYAML converts a generic value decoded by yaml.v3 into the shapes
// encoding/json would have produced: map[string]any for every mapping, []any
// for sequences, and RFC 3339 strings for timestamps. Non-string map keys are
// formatted with fmt.
func NormalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = NormalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = NormalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeYAML(item)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}
