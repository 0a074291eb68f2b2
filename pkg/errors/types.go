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

package errors

import (
	"fmt"
	"time"
)

// ValidationError represents a model field that failed a structural check.
// Schema violations are reported as data by the validator, not with this type.
type ValidationError struct {
	// Field identifies which field failed validation (e.g., "auth[0].properties.username")
	Field string

	// Message is the human-readable error description
	Message string

	// Suggestion provides actionable guidance for fixing the error
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// ErrorType implements ErrorClassifier.
func (e *ValidationError) ErrorType() string { return "validation" }

// IsRetryable implements ErrorClassifier.
func (e *ValidationError) IsRetryable() bool { return false }

// ConfigError represents configuration problems.
// Use this for configuration file errors, missing settings, or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "schema_url", "http.timeout")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *ConfigError) ErrorType() string { return "config" }

// IsRetryable implements ErrorClassifier.
func (e *ConfigError) IsRetryable() bool { return false }

// TimeoutError represents operation timeouts.
// Use this when an operation exceeds its context deadline or client timeout.
type TimeoutError struct {
	// Operation describes what timed out (e.g., "schema fetch")
	Operation string

	// Duration is how long the operation ran before timing out
	Duration time.Duration

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s operation timed out after %v", e.Operation, e.Duration)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *TimeoutError) ErrorType() string { return "timeout" }

// IsRetryable implements ErrorClassifier.
func (e *TimeoutError) IsRetryable() bool { return true }

// DecodeError represents a payload that could not be deserialized.
// A workflow document that is not well-formed JSON or YAML fails with this error
// before any schema check runs.
type DecodeError struct {
	// Format is the expected payload format ("json" or "yaml")
	Format string

	// Cause is the underlying parser error
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s document: %v", e.Format, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *DecodeError) ErrorType() string { return "decode" }

// IsRetryable implements ErrorClassifier.
func (e *DecodeError) IsRetryable() bool { return false }

// TransportError represents a network failure while talking to a remote endpoint.
type TransportError struct {
	// URL is the endpoint that was being requested
	URL string

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *TransportError) ErrorType() string { return "transport" }

// IsRetryable implements ErrorClassifier.
func (e *TransportError) IsRetryable() bool { return true }

// HTTPError represents a response with a non-success status code.
type HTTPError struct {
	// URL is the endpoint that returned the status
	URL string

	// StatusCode is the HTTP status code
	StatusCode int

	// Body is a truncated prefix of the response body, for diagnostics
	Body string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

// ErrorType implements ErrorClassifier.
func (e *HTTPError) ErrorType() string { return "http" }

// IsRetryable implements ErrorClassifier.
// Server errors and rate limiting are transient; client errors are not.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429 || e.StatusCode == 408
}

// SchemaError represents a schema document that could not be compiled.
type SchemaError struct {
	// Source is where the schema came from (usually a URL)
	Source string

	// Cause is the underlying compile error
	Cause error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema from %s: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *SchemaError) ErrorType() string { return "schema" }

// IsRetryable implements ErrorClassifier.
func (e *SchemaError) IsRetryable() bool { return false }

// UserMessage implements UserVisibleError.
func (e *SchemaError) UserMessage() string {
	return fmt.Sprintf("The workflow schema at %s could not be loaded.", e.Source)
}

// IsUserVisible implements UserVisibleError.
func (e *SchemaError) IsUserVisible() bool { return true }

// Suggestion implements UserVisibleError.
func (e *SchemaError) Suggestion() string {
	return "Check that --schema-url points to a JSON Schema document"
}
