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

package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sdkerrors "github.com/tombee/swsdk/pkg/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *sdkerrors.ValidationError
		wantMsg string
	}{
		{
			name: "with field",
			err: &sdkerrors.ValidationError{
				Field:      "properties.username",
				Message:    "required field is missing",
				Suggestion: "Set a username for basic authentication",
			},
			wantMsg: "validation failed on properties.username: required field is missing",
		},
		{
			name: "without field",
			err: &sdkerrors.ValidationError{
				Message: "invalid format",
			},
			wantMsg: "validation failed: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *sdkerrors.HTTPError
		want    []string
		notWant []string
	}{
		{
			name: "with body",
			err: &sdkerrors.HTTPError{
				URL:        "https://example.com/workflow.json",
				StatusCode: 500,
				Body:       "internal error",
			},
			want: []string{"https://example.com/workflow.json", "HTTP 500", "internal error"},
		},
		{
			name: "without body",
			err: &sdkerrors.HTTPError{
				URL:        "https://example.com/workflow.json",
				StatusCode: 404,
			},
			want:    []string{"HTTP 404"},
			notWant: []string{": :"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("HTTPError.Error() = %q, want it to contain %q", msg, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(msg, nw) {
					t.Errorf("HTTPError.Error() = %q, should not contain %q", msg, nw)
				}
			}
		})
	}
}

func TestHTTPError_IsRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{status: 500, want: true},
		{status: 503, want: true},
		{status: 429, want: true},
		{status: 408, want: true},
		{status: 404, want: false},
		{status: 403, want: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			err := &sdkerrors.HTTPError{StatusCode: tt.status}
			if got := err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrappingTypes_Unwrap(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		name string
		err  error
	}{
		{name: "ConfigError", err: &sdkerrors.ConfigError{Key: "schema_url", Reason: "bad", Cause: cause}},
		{name: "TimeoutError", err: &sdkerrors.TimeoutError{Operation: "schema fetch", Duration: time.Second, Cause: cause}},
		{name: "DecodeError", err: &sdkerrors.DecodeError{Format: "json", Cause: cause}},
		{name: "TransportError", err: &sdkerrors.TransportError{URL: "https://example.com", Cause: cause}},
		{name: "SchemaError", err: &sdkerrors.SchemaError{Source: "https://example.com", Cause: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Errorf("%s should unwrap to its cause", tt.name)
			}
			if !strings.Contains(tt.err.Error(), "root cause") && tt.name != "TimeoutError" {
				t.Errorf("%s message should include cause, got %q", tt.name, tt.err.Error())
			}
		})
	}
}

func TestErrorClassifier(t *testing.T) {
	tests := []struct {
		err       sdkerrors.ErrorClassifier
		wantType  string
		retryable bool
	}{
		{err: &sdkerrors.ValidationError{}, wantType: "validation", retryable: false},
		{err: &sdkerrors.ConfigError{}, wantType: "config", retryable: false},
		{err: &sdkerrors.TimeoutError{}, wantType: "timeout", retryable: true},
		{err: &sdkerrors.DecodeError{}, wantType: "decode", retryable: false},
		{err: &sdkerrors.TransportError{}, wantType: "transport", retryable: true},
		{err: &sdkerrors.HTTPError{StatusCode: 502}, wantType: "http", retryable: true},
		{err: &sdkerrors.SchemaError{}, wantType: "schema", retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.wantType, func(t *testing.T) {
			if got := tt.err.ErrorType(); got != tt.wantType {
				t.Errorf("ErrorType() = %q, want %q", got, tt.wantType)
			}
			if got := tt.err.IsRetryable(); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestSchemaError_UserVisible(t *testing.T) {
	var err error = &sdkerrors.SchemaError{Source: "https://example.com/schema.json", Cause: errors.New("bad $ref")}

	var uve sdkerrors.UserVisibleError
	if !errors.As(err, &uve) {
		t.Fatal("SchemaError should implement UserVisibleError")
	}
	if !uve.IsUserVisible() {
		t.Error("SchemaError should be user visible")
	}
	if !strings.Contains(uve.UserMessage(), "https://example.com/schema.json") {
		t.Errorf("UserMessage() = %q, want it to mention the source", uve.UserMessage())
	}
	if uve.Suggestion() == "" {
		t.Error("Suggestion() should not be empty")
	}
}
