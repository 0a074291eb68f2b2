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

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdklog "github.com/tombee/swsdk/internal/log"
	sdkerrors "github.com/tombee/swsdk/pkg/errors"
	"github.com/tombee/swsdk/pkg/httpclient"
	"github.com/tombee/swsdk/pkg/validator"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SWSDK_SCHEMA_URL", "SWSDK_HTTP_TIMEOUT", "SWSDK_USER_AGENT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE", "SWSDK_LOG_LEVEL", "SWSDK_DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.SchemaURL != validator.DefaultSchemaURL {
		t.Errorf("expected schema URL %q, got %q", validator.DefaultSchemaURL, cfg.SchemaURL)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected http timeout 30s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != httpclient.DefaultUserAgent {
		t.Errorf("expected user agent %q, got %q", httpclient.DefaultUserAgent, cfg.HTTP.UserAgent)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected log format 'text', got %q", cfg.Log.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errText string
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name:    "empty schema url",
			modify:  func(c *Config) { c.SchemaURL = "" },
			wantErr: true,
			errText: "schema_url is required",
		},
		{
			name:    "relative schema url",
			modify:  func(c *Config) { c.SchemaURL = "schema/workflow.json" },
			wantErr: true,
			errText: "schema_url must be an absolute http(s) URL",
		},
		{
			name:    "file schema url",
			modify:  func(c *Config) { c.SchemaURL = "file:///tmp/workflow.json" },
			wantErr: true,
			errText: "schema_url must be an absolute http(s) URL",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: true,
			errText: "http.timeout must be positive",
		},
		{
			name:    "empty user agent",
			modify:  func(c *Config) { c.HTTP.UserAgent = "" },
			wantErr: true,
			errText: "http.user_agent must not be empty",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
			errText: "log.level must be one of",
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errText: "log.format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("expected error containing %q, got %q", tt.errText, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SchemaURL != validator.DefaultSchemaURL {
		t.Errorf("expected default schema URL, got %q", cfg.SchemaURL)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
schema_url: https://schemas.example.com/workflow.json
http:
  timeout: 5s
  user_agent: custom-agent/2.0
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SchemaURL != "https://schemas.example.com/workflow.json" {
		t.Errorf("expected schema URL from file, got %q", cfg.SchemaURL)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected http timeout 5s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "custom-agent/2.0" {
		t.Errorf("expected user agent from file, got %q", cfg.HTTP.UserAgent)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected log format 'json', got %q", cfg.Log.Format)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level 'warn', got %q", cfg.Log.Level)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected default timeout to survive, got %v", cfg.HTTP.Timeout)
	}
	if cfg.SchemaURL != validator.DefaultSchemaURL {
		t.Errorf("expected default schema URL to survive, got %q", cfg.SchemaURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
schema_url: https://schemas.example.com/workflow.json
http:
  timeout: 5s
`)
	t.Setenv("SWSDK_SCHEMA_URL", "https://mirror.example.com/workflow.json")
	t.Setenv("SWSDK_HTTP_TIMEOUT", "2m")
	t.Setenv("SWSDK_USER_AGENT", "env-agent")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SOURCE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SchemaURL != "https://mirror.example.com/workflow.json" {
		t.Errorf("expected schema URL from env, got %q", cfg.SchemaURL)
	}
	if cfg.HTTP.Timeout != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent != "env-agent" {
		t.Errorf("expected user agent from env, got %q", cfg.HTTP.UserAgent)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected lowercased log level, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected lowercased log format, got %q", cfg.Log.Format)
	}
	if !cfg.Log.AddSource {
		t.Error("expected add_source from env")
	}
}

func TestLoad_SWSDKLogVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SWSDK_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected SWSDK_LOG_LEVEL to win, got %q", cfg.Log.Level)
	}

	t.Setenv("SWSDK_DEBUG", "1")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.AddSource {
		t.Errorf("expected SWSDK_DEBUG to force debug with source, got %+v", cfg.Log)
	}
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	lc := cfg.LoggerConfig(&buf)
	if lc.Level != "debug" || lc.Format != sdklog.FormatJSON || lc.Output != &buf {
		t.Errorf("unexpected logger config: %+v", lc)
	}

	sdklog.New(lc).Debug("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON debug record, got %q", buf.String())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantKey string
	}{
		{
			name:    "missing file",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantKey: "config_file",
		},
		{
			name:    "malformed yaml",
			setup:   func(t *testing.T) string { return writeConfig(t, "schema_url: [unterminated\n") },
			wantKey: "config_file",
		},
		{
			name: "bad timeout env",
			setup: func(t *testing.T) string {
				t.Setenv("SWSDK_HTTP_TIMEOUT", "soon")
				return ""
			},
			wantKey: "http.timeout",
		},
		{
			name:    "invalid values",
			setup:   func(t *testing.T) string { return writeConfig(t, "log:\n  format: xml\n") },
			wantKey: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := tt.setup(t)

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var cfgErr *sdkerrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q", tt.wantKey, cfgErr.Key)
			}
		})
	}
}

func TestHTTPClientConfig(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Timeout = 7 * time.Second
	cfg.HTTP.UserAgent = "agent"

	hc := cfg.HTTPClientConfig()
	if hc.Timeout != 7*time.Second || hc.UserAgent != "agent" {
		t.Errorf("unexpected http client config: %+v", hc)
	}
	if err := hc.Validate(); err != nil {
		t.Errorf("http client config should be valid: %v", err)
	}
}

func TestConfigPath_RespectsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "swsdk", "config.yaml"); path != want {
		t.Errorf("expected %q, got %q", want, path)
	}

	if got := DiscoverPath(); got != "" {
		t.Errorf("expected no discovered config, got %q", got)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := DiscoverPath(); got != path {
		t.Errorf("expected discovered path %q, got %q", path, got)
	}
}
