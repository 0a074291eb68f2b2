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

// Package config loads swsdk CLI settings from a YAML file and the environment.
//
// Precedence, lowest first: Default(), the config file, environment variables.
// Command-line flags are applied by the caller on top of the loaded Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	sdklog "github.com/tombee/swsdk/internal/log"
	sdkerrors "github.com/tombee/swsdk/pkg/errors"
	"github.com/tombee/swsdk/pkg/httpclient"
	"github.com/tombee/swsdk/pkg/validator"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the complete swsdk configuration.
type Config struct {
	// SchemaURL is where the workflow JSON Schema is fetched from.
	// Environment: SWSDK_SCHEMA_URL
	SchemaURL string `yaml:"schema_url"`

	HTTP HTTPConfig `yaml:"http"`
	Log  LogConfig  `yaml:"log"`
}

// HTTPConfig configures the client used for schema fetches.
type HTTPConfig struct {
	// Timeout bounds a whole schema request, body included.
	// Environment: SWSDK_HTTP_TIMEOUT
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent is sent with every request.
	// Environment: SWSDK_USER_AGENT
	UserAgent string `yaml:"user_agent"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	// Environment: SWSDK_LOG_LEVEL, LOG_LEVEL (SWSDK_DEBUG forces debug)
	Level string `yaml:"level"`

	// Format is json or text.
	// Environment: LOG_FORMAT
	Format string `yaml:"format"`

	// AddSource adds source file and line to log records.
	// Environment: LOG_SOURCE
	AddSource bool `yaml:"add_source"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		SchemaURL: validator.DefaultSchemaURL,
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: httpclient.DefaultUserAgent,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from an optional YAML file and then the
// environment. Environment variables take precedence over the file.
// If configPath is empty, only defaults and the environment are used.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, &sdkerrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", configPath),
				Cause:  err,
			}
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &sdkerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed",
			Cause:  err,
		}
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return sdkerrors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sdkerrors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return sdkerrors.Wrap(err, "failed to parse YAML")
	}

	return nil
}

// loadFromEnv applies environment overrides. A malformed duration is an error
// rather than silently falling back to the file or default value.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv("SWSDK_SCHEMA_URL"); val != "" {
		c.SchemaURL = val
	}

	if val := os.Getenv("SWSDK_HTTP_TIMEOUT"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return &sdkerrors.ConfigError{
				Key:    "http.timeout",
				Reason: fmt.Sprintf("SWSDK_HTTP_TIMEOUT %q is not a duration", val),
				Cause:  err,
			}
		}
		c.HTTP.Timeout = timeout
	}
	if val := os.Getenv("SWSDK_USER_AGENT"); val != "" {
		c.HTTP.UserAgent = val
	}

	if val := os.Getenv("SWSDK_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	} else if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}

	if val := os.Getenv("SWSDK_DEBUG"); val == "1" || val == "true" {
		c.Log.Level = "debug"
		c.Log.AddSource = true
	}

	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.SchemaURL == "" {
		errs = append(errs, "schema_url is required")
	} else if u, err := url.Parse(c.SchemaURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("schema_url must be an absolute http(s) URL, got %q", c.SchemaURL))
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("http.timeout must be positive, got %v", c.HTTP.Timeout))
	}
	if c.HTTP.UserAgent == "" {
		errs = append(errs, "http.user_agent must not be empty")
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, warning, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// LoggerConfig returns the logging settings described by c, writing to w.
func (c *Config) LoggerConfig(w io.Writer) *sdklog.Config {
	return &sdklog.Config{
		Level:     c.Log.Level,
		Format:    sdklog.Format(c.Log.Format),
		Output:    w,
		AddSource: c.Log.AddSource,
	}
}

// HTTPClientConfig returns the httpclient settings described by c.
func (c *Config) HTTPClientConfig() httpclient.Config {
	return httpclient.Config{
		Timeout:   c.HTTP.Timeout,
		UserAgent: c.HTTP.UserAgent,
	}
}
