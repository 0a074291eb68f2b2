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
	"errors"
	"fmt"
	"io"
	"os"

	sdkerrors "github.com/tombee/swsdk/pkg/errors"
)

// Exit codes for swsdk commands
const (
	ExitSuccess           = 0
	ExitInvalidWorkflow   = 1 // Document decoded but violates the schema
	ExitInputError        = 2 // Unreadable or undecodable input, bad flags or config
	ExitSchemaUnavailable = 3 // Schema could not be fetched or compiled
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewInvalidWorkflowError creates an error for documents with schema violations
func NewInvalidWorkflowError(msg string) *ExitError {
	return &ExitError{
		Code:    ExitInvalidWorkflow,
		Message: msg,
	}
}

// NewInputError creates an error for unreadable input, flags or config
func NewInputError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInputError,
		Message: msg,
		Cause:   cause,
	}
}

// NewSchemaUnavailableError creates an error for schema fetch or compile failures
func NewSchemaUnavailableError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSchemaUnavailable,
		Message: msg,
		Cause:   cause,
	}
}

// ExitCodeForError maps an SDK error to the exit code a command should use.
// Unclassified errors count as schema failures because they can only come
// from the validation engine.
func ExitCodeForError(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var classifier sdkerrors.ErrorClassifier
	if errors.As(err, &classifier) {
		switch classifier.ErrorType() {
		case "decode", "config", "validation":
			return ExitInputError
		}
	}
	return ExitSchemaUnavailable
}

// HandleExitError prints err and exits with its exit code.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	ReportError(os.Stderr, err)
	os.Exit(ExitCodeForError(err))
}

// ReportError writes err, and any suggestion found in its chain, to w.
// ExitErrors with an empty message have already reported themselves.
func ReportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Error() == "" {
		return
	}

	fmt.Fprintln(w, "Error:", err.Error())
	printUserVisibleSuggestion(w, err)
}

// printUserVisibleSuggestion checks if an error implements UserVisibleError
// and prints the suggestion if available.
func printUserVisibleSuggestion(w io.Writer, err error) {
	var userErr sdkerrors.UserVisibleError
	if !errors.As(err, &userErr) || !userErr.IsUserVisible() {
		return
	}

	if suggestion := userErr.Suggestion(); suggestion != "" {
		fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
	}
}
