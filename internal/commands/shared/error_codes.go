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

	sdkerrors "github.com/tombee/swsdk/pkg/errors"
)

// Error codes for structured JSON output
const (
	// Validation errors (E001-E099)
	ErrorCodeInvalidDocument = "E002" // Document is not well-formed JSON or YAML
	ErrorCodeSchemaViolation = "E003" // Schema constraint violation

	// Schema errors (E100-E199)
	ErrorCodeSchemaUnavailable = "E101" // Schema fetch or compile failed

	// Configuration errors (E200-E299)
	ErrorCodeInvalidConfig = "E202" // Invalid configuration

	// Input errors (E300-E399)
	ErrorCodeInvalidInput = "E302" // Invalid flag value
	ErrorCodeFileNotFound = "E303" // File not found
)

// ErrorCodeFor maps an error to its JSON error code.
func ErrorCodeFor(err error) string {
	switch ExitCodeForError(err) {
	case ExitInvalidWorkflow:
		return ErrorCodeSchemaViolation
	case ExitInputError:
		if isConfigError(err) {
			return ErrorCodeInvalidConfig
		}
		return ErrorCodeInvalidDocument
	default:
		return ErrorCodeSchemaUnavailable
	}
}

func isConfigError(err error) bool {
	var cfgErr *sdkerrors.ConfigError
	return errors.As(err, &cfgErr)
}
