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

// Package validator checks Serverless Workflow definitions against the
// published workflow JSON Schema.
//
// The schema is fetched over HTTP on first use and kept for the lifetime of
// the Validator. Concurrent first callers share a single fetch. A failed
// fetch is not cached, so the next call tries again.
//
//	v := validator.New()
//	res, err := v.Validate(ctx, workflowJSON)
//	if err != nil {
//		// decode, transport, HTTP or schema error
//	}
//	if !res.Valid {
//		for _, msg := range res.Errors {
//			fmt.Println(msg)
//		}
//	}
package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	sdklog "github.com/tombee/swsdk/internal/log"
	sdkerrors "github.com/tombee/swsdk/pkg/errors"
	"github.com/tombee/swsdk/pkg/httpclient"
	"github.com/tombee/swsdk/pkg/serializer"
)

// DefaultSchemaURL is the canonical location of the workflow schema.
const DefaultSchemaURL = "https://raw.githubusercontent.com/serverlessworkflow/specification/main/schema/workflow.json"

// maxErrorBody caps how much of a failed response body is kept in HTTPError.
const maxErrorBody = 512

const tracerName = "github.com/tombee/swsdk/pkg/validator"

// Result is the outcome of validating one document.
type Result struct {
	// Valid is true when the document satisfies the schema.
	Valid bool `json:"valid"`

	// Errors holds one message per violation, in the order the schema
	// engine reported them. Empty when Valid is true.
	Errors []string `json:"errors"`
}

// Validator validates workflow definitions against a lazily fetched schema.
// It is safe for concurrent use.
type Validator struct {
	client     *http.Client
	serializer serializer.Serializer
	schemaURL  string
	logger     *slog.Logger
	tracer     trace.Tracer

	schema atomic.Pointer[gojsonschema.Schema]
	mu     sync.Mutex
}

// Option configures a Validator.
type Option func(*Validator)

// WithHTTPClient sets the client used to fetch the schema.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Validator) {
		v.client = client
	}
}

// WithSerializer sets the serializer used to decode documents passed to Validate.
func WithSerializer(s serializer.Serializer) Option {
	return func(v *Validator) {
		v.serializer = s
	}
}

// WithSchemaURL overrides DefaultSchemaURL.
func WithSchemaURL(url string) Option {
	return func(v *Validator) {
		v.schemaURL = url
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator. No network traffic happens until the first
// Validate or LoadSchema call.
func New(opts ...Option) *Validator {
	v := &Validator{
		serializer: serializer.JSON(),
		schemaURL:  DefaultSchemaURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.logger = sdklog.WithComponent(v.logger, "validator")
	v.tracer = otel.Tracer(tracerName)

	if v.client == nil {
		cfg := httpclient.DefaultConfig()
		cfg.Logger = v.logger
		client, err := httpclient.New(cfg)
		if err != nil {
			client = http.DefaultClient
		}
		v.client = client
	}

	return v
}

// SchemaURL returns the URL the schema is fetched from.
func (v *Validator) SchemaURL() string {
	return v.schemaURL
}

// Validate checks a workflow definition, decoded with the configured
// serializer (JSON by default), against the schema.
//
// A document that cannot be decoded yields a *errors.DecodeError. Failing to
// obtain the schema yields a *errors.TransportError, *errors.TimeoutError,
// *errors.HTTPError or *errors.SchemaError. Schema violations are not errors;
// they are reported in the Result.
func (v *Validator) Validate(ctx context.Context, workflow string) (*Result, error) {
	return v.validate(ctx, v.serializer, workflow)
}

// ValidateYAML is Validate for a YAML-encoded workflow definition.
func (v *Validator) ValidateYAML(ctx context.Context, workflow string) (*Result, error) {
	return v.validate(ctx, serializer.YAML(), workflow)
}

// LoadSchema fetches and compiles the schema if it is not cached yet.
func (v *Validator) LoadSchema(ctx context.Context) error {
	_, err := v.loadSchema(ctx)
	return err
}

func (v *Validator) validate(ctx context.Context, s serializer.Serializer, workflow string) (*Result, error) {
	ctx, span := v.tracer.Start(ctx, "validator.validate",
		trace.WithAttributes(attribute.String("document.format", s.Format())),
	)
	defer span.End()

	doc, err := decodeDocument(s, workflow)
	if err != nil {
		recordValidation("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}

	schema, err := v.loadSchema(ctx)
	if err != nil {
		recordValidation("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "schema unavailable")
		return nil, err
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		recordValidation("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, fmt.Errorf("validating workflow: %w", err)
	}

	result := &Result{Valid: res.Valid(), Errors: make([]string, 0, len(res.Errors()))}
	for _, e := range res.Errors() {
		result.Errors = append(result.Errors, e.String())
	}

	if result.Valid {
		recordValidation("valid")
	} else {
		recordValidation("invalid")
	}

	span.SetAttributes(
		attribute.Bool("workflow.valid", result.Valid),
		attribute.Int("workflow.violations", len(result.Errors)),
	)
	span.SetStatus(codes.Ok, "")

	v.logger.DebugContext(ctx, "workflow validated",
		slog.Bool("valid", result.Valid),
		slog.Int(sdklog.ViolationsKey, len(result.Errors)),
	)

	return result, nil
}

// decodeDocument turns the raw text into the generic value the schema engine
// walks. The top level must be an object.
func decodeDocument(s serializer.Serializer, workflow string) (any, error) {
	var doc any
	if err := s.Unmarshal([]byte(workflow), &doc); err != nil {
		return nil, &sdkerrors.DecodeError{Format: s.Format(), Cause: err}
	}

	if s.Format() == serializer.FormatYAML {
		doc = serializer.NormalizeYAML(doc)
	}

	if _, ok := doc.(map[string]any); !ok {
		return nil, &sdkerrors.DecodeError{
			Format: s.Format(),
			Cause:  fmt.Errorf("workflow document must be an object, got %T", doc),
		}
	}

	// YAML accepts .nan and .inf, which have no JSON representation.
	if path := nonFinitePath(doc, "$"); path != "" {
		return nil, &sdkerrors.DecodeError{
			Format: s.Format(),
			Cause:  fmt.Errorf("%s: NaN and infinite numbers are not valid in a workflow document", path),
		}
	}

	return doc, nil
}

// nonFinitePath returns the path of the first NaN or infinite number in v,
// or "" if there is none.
func nonFinitePath(v any, path string) string {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return path
		}
	case map[string]any:
		for k, item := range val {
			if p := nonFinitePath(item, path+"."+k); p != "" {
				return p
			}
		}
	case []any:
		for i, item := range val {
			if p := nonFinitePath(item, fmt.Sprintf("%s[%d]", path, i)); p != "" {
				return p
			}
		}
	}
	return ""
}

// loadSchema returns the cached schema, fetching it under the load lock when
// absent. Only a successful load is stored.
//
// Callers that arrive while another goroutine is fetching wait on the lock
// without watching their own ctx, so they block until that fetch finishes or
// hits the leader's timeout (the client timeout, 30s by default).
func (v *Validator) loadSchema(ctx context.Context) (*gojsonschema.Schema, error) {
	if schema := v.schema.Load(); schema != nil {
		return schema, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if schema := v.schema.Load(); schema != nil {
		return schema, nil
	}

	start := time.Now()
	schema, err := v.fetchSchema(ctx)
	schemaFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		schemaFetches.WithLabelValues(fetchOutcome(err)).Inc()
		v.logger.WarnContext(ctx, "schema fetch failed",
			slog.String(sdklog.SchemaURLKey, v.schemaURL),
			slog.Any("error", err),
		)
		return nil, err
	}

	schemaFetches.WithLabelValues("success").Inc()
	v.logger.InfoContext(ctx, "workflow schema loaded",
		slog.String(sdklog.SchemaURLKey, v.schemaURL),
		slog.Int64(sdklog.DurationKey, time.Since(start).Milliseconds()),
	)

	v.schema.Store(schema)
	return schema, nil
}

func (v *Validator) fetchSchema(ctx context.Context) (*gojsonschema.Schema, error) {
	ctx, span := v.tracer.Start(ctx, "validator.fetch_schema",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("schema.url", v.schemaURL)),
	)
	defer span.End()

	body, err := v.download(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("schema.bytes", len(body)))
	sdklog.Trace(ctx, v.logger, "schema downloaded",
		slog.String(sdklog.SchemaURLKey, v.schemaURL),
		slog.Int("bytes", len(body)),
	)

	schema, err := compileSchema(v.schemaURL, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return schema, nil
}

func (v *Validator) download(ctx context.Context) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.schemaURL, nil)
	if err != nil {
		return nil, &sdkerrors.TransportError{URL: v.schemaURL, Cause: err}
	}
	req.Header.Set("Accept", "application/schema+json, application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, v.classifyNetworkError(err, start)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, v.classifyNetworkError(err, start)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &sdkerrors.HTTPError{
			URL:        v.schemaURL,
			StatusCode: resp.StatusCode,
			Body:       truncate(body, maxErrorBody),
		}
	}

	return body, nil
}

func (v *Validator) classifyNetworkError(err error, start time.Time) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &sdkerrors.TimeoutError{
			Operation: "schema fetch",
			Duration:  time.Since(start),
			Cause:     err,
		}
	}
	return &sdkerrors.TransportError{URL: v.schemaURL, Cause: err}
}

// compileSchema registers the document under its source URL so relative
// $refs resolve against it, then compiles it.
func compileSchema(source string, body []byte) (*gojsonschema.Schema, error) {
	loader := gojsonschema.NewSchemaLoader()
	if err := loader.AddSchema(source, gojsonschema.NewBytesLoader(body)); err != nil {
		return nil, &sdkerrors.SchemaError{Source: source, Cause: err}
	}

	schema, err := loader.Compile(gojsonschema.NewReferenceLoader(source))
	if err != nil {
		return nil, &sdkerrors.SchemaError{Source: source, Cause: err}
	}
	return schema, nil
}

func fetchOutcome(err error) string {
	var classifier sdkerrors.ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorType()
	}
	return "error"
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
