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

package shared

import (
	"bytes"
	"testing"

	gojson "github.com/goccy/go-json"
)

func TestEmitJSON_Envelope(t *testing.T) {
	var buf bytes.Buffer
	err := EmitJSON(&buf, JSONResponse{Version: "1.0", Command: "validate", Success: true})
	if err != nil {
		t.Fatalf("EmitJSON failed: %v", err)
	}

	var raw map[string]interface{}
	if err := gojson.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if raw["@version"] != "1.0" {
		t.Errorf("@version = %v, want 1.0", raw["@version"])
	}
	if raw["command"] != "validate" {
		t.Errorf("command = %v, want validate", raw["command"])
	}
	if raw["success"] != true {
		t.Errorf("success = %v, want true", raw["success"])
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  \"")) {
		t.Errorf("expected indented output, got %q", buf.String())
	}
}

func TestEmitJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := EmitJSONError(&buf, "validate", []JSONError{
		{Code: ErrorCodeFileNotFound, Message: "missing.yaml not found", Suggestion: "Check the path"},
		{Code: ErrorCodeSchemaViolation, Message: "(root): id is required"},
	})
	if err != nil {
		t.Fatalf("EmitJSONError failed: %v", err)
	}

	var decoded struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}
	if err := gojson.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Success {
		t.Error("success should be false")
	}
	if len(decoded.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(decoded.Errors))
	}
	if decoded.Errors[0].Suggestion != "Check the path" {
		t.Errorf("suggestion = %q", decoded.Errors[0].Suggestion)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"suggestion": ""`)) {
		t.Error("empty suggestion should be omitted")
	}
}
