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

package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/swsdk/internal/cli/format"
	"github.com/tombee/swsdk/internal/commands/shared"
	"github.com/tombee/swsdk/internal/config"
	sdklog "github.com/tombee/swsdk/internal/log"
	"github.com/tombee/swsdk/internal/tracing"
	sdkerrors "github.com/tombee/swsdk/pkg/errors"
	"github.com/tombee/swsdk/pkg/httpclient"
	"github.com/tombee/swsdk/pkg/serializer"
	"github.com/tombee/swsdk/pkg/validator"
)

const commandName = "validate"

// Format flag values
const (
	formatAuto = "auto"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errUnsupportedFormat = errors.New("unsupported format")

type options struct {
	schemaURL string
	format    string
	trace     bool
}

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a workflow definition against the workflow schema",
		Long: `Validate checks that a workflow definition conforms to the Serverless
Workflow JSON Schema. The document may be JSON or YAML; the format is taken
from the file extension unless --format is given.

The schema is downloaded once per invocation from the configured schema URL.

Exit codes:
  0  document is valid
  1  document violates the schema
  2  the file, a flag or the config file could not be used
  3  the schema could not be fetched or compiled`,
		Example: `  # Validate a YAML workflow
  swsdk validate greeting.yaml

  # Validate against a pinned schema and emit JSON
  swsdk validate greeting.json --schema-url https://example.com/workflow.json --json

  # Print spans for the schema download and validation to stderr
  swsdk validate greeting.yaml --trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.schemaURL, "schema-url", "", "Workflow schema URL (overrides config)")
	cmd.Flags().StringVar(&opts.format, "format", formatAuto, "Document format: auto, json or yaml")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Write OpenTelemetry spans to stderr")

	return cmd
}

func run(cmd *cobra.Command, path string, opts options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fail(cmd, shared.NewInputError("invalid configuration", err))
	}

	logCfg := cfg.LoggerConfig(cmd.ErrOrStderr())
	if shared.GetVerbose() {
		logCfg.Level = "debug"
	}
	logger := sdklog.New(logCfg)

	correlationID := tracing.NewCorrelationID()
	ctx = tracing.ToContext(ctx, correlationID)
	logger = sdklog.WithCorrelationID(logger, correlationID.String())

	if opts.trace {
		version, _, _ := shared.GetVersion()
		shutdown, err := tracing.SetupConsole(tracing.ConsoleConfig{
			ServiceName:    "swsdk",
			ServiceVersion: version,
			Writer:         cmd.ErrOrStderr(),
		})
		if err != nil {
			return fail(cmd, shared.NewInputError("failed to set up tracing", err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("failed to flush spans", slog.Any("error", err))
			}
		}()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(cmd, &shared.ExitError{
			Code:    shared.ExitInputError,
			Message: fmt.Sprintf("cannot read %s", path),
			Cause:   err,
		})
	}

	s, err := resolveSerializer(opts.format, path, data)
	if err != nil {
		return fail(cmd, shared.NewInputError("invalid --format", err))
	}

	httpCfg := cfg.HTTPClientConfig()
	httpCfg.Logger = logger
	client, err := httpclient.New(httpCfg)
	if err != nil {
		return fail(cmd, shared.NewInputError("invalid HTTP client configuration", err))
	}

	v := validator.New(
		validator.WithHTTPClient(client),
		validator.WithSchemaURL(cfg.SchemaURL),
		validator.WithLogger(logger),
		validator.WithSerializer(s),
	)

	logger.Debug("validating document",
		slog.String("path", path),
		slog.String("format", s.Format()),
		slog.String(sdklog.SchemaURLKey, v.SchemaURL()),
	)

	res, err := v.Validate(ctx, string(data))
	if err != nil {
		if shared.ExitCodeForError(err) == shared.ExitSchemaUnavailable {
			err = shared.NewSchemaUnavailableError("failed to load workflow schema", err)
		}
		return fail(cmd, err)
	}

	if !res.Valid {
		return reportViolations(cmd, path, res.Errors)
	}
	return reportValid(cmd, path, v.SchemaURL())
}

// loadConfig loads the config file named by --config, or the discovered
// default, and applies the --schema-url override.
func loadConfig(opts options) (*config.Config, error) {
	path := shared.GetConfigPath()
	if path == "" {
		path = config.DiscoverPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if opts.schemaURL != "" {
		cfg.SchemaURL = opts.schemaURL
		if err := cfg.Validate(); err != nil {
			return nil, &sdkerrors.ConfigError{Key: "schema_url", Reason: "invalid --schema-url", Cause: err}
		}
	}
	return cfg, nil
}

// resolveSerializer picks the document serializer from the --format flag,
// then the file extension, then the first non-blank byte of the content.
func resolveSerializer(flag, path string, data []byte) (serializer.Serializer, error) {
	switch strings.ToLower(flag) {
	case formatJSON:
		return serializer.JSON(), nil
	case formatYAML, "yml":
		return serializer.YAML(), nil
	case formatAuto, "":
	default:
		return nil, fmt.Errorf("%w %q (expected auto, json or yaml)", errUnsupportedFormat, flag)
	}

	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext != "" {
		if s, err := serializer.ForFormat(ext); err == nil {
			return s, nil
		}
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return serializer.JSON(), nil
	}
	return serializer.YAML(), nil
}

// fail reports err in the requested output mode and returns the ExitError
// that carries its exit code.
func fail(cmd *cobra.Command, err error) error {
	code := shared.ExitCodeForError(err)
	if !shared.GetJSON() {
		var exitErr *shared.ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return &shared.ExitError{Code: code, Cause: err}
	}

	jsonErr := shared.JSONError{
		Code:    errorCode(err),
		Message: err.Error(),
	}
	var userErr interface{ Suggestion() string }
	if errors.As(err, &userErr) {
		jsonErr.Suggestion = userErr.Suggestion()
	}
	if emitErr := shared.EmitJSONError(cmd.OutOrStdout(), commandName, []shared.JSONError{jsonErr}); emitErr != nil {
		return emitErr
	}
	return &shared.ExitError{Code: code}
}

func errorCode(err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return shared.ErrorCodeFileNotFound
	}
	if errors.Is(err, errUnsupportedFormat) {
		return shared.ErrorCodeInvalidInput
	}
	return shared.ErrorCodeFor(err)
}

func reportViolations(cmd *cobra.Command, path string, violations []string) error {
	out := cmd.OutOrStdout()

	if shared.GetJSON() {
		errs := make([]shared.JSONError, 0, len(violations))
		for _, msg := range violations {
			errs = append(errs, shared.JSONError{
				Code:    shared.ErrorCodeSchemaViolation,
				Message: msg,
			})
		}
		if err := shared.EmitJSONError(out, commandName, errs); err != nil {
			return err
		}
	} else {
		styler := format.Styler{Color: format.IsTTY(out)}
		fmt.Fprint(out, styler.Violations(path, violations))
	}

	// Already reported above, so the message stays empty.
	return shared.NewInvalidWorkflowError("")
}

func reportValid(cmd *cobra.Command, path, schemaURL string) error {
	out := cmd.OutOrStdout()

	if shared.GetJSON() {
		return shared.EmitJSON(out, struct {
			shared.JSONResponse
			Valid     bool   `json:"valid"`
			File      string `json:"file"`
			SchemaURL string `json:"schema_url"`
		}{
			JSONResponse: shared.JSONResponse{
				Version: "1.0",
				Command: commandName,
				Success: true,
			},
			Valid:     true,
			File:      path,
			SchemaURL: schemaURL,
		})
	}

	styler := format.Styler{Color: format.IsTTY(out)}
	fmt.Fprintln(out, styler.OK(path+": valid"))
	return nil
}
