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

// Package model holds the Serverless Workflow data types the SDK works with.
//
// Wire names are declared once per field in struct tags and shared by the
// JSON and YAML codecs.
package model

import (
	"fmt"
	"log/slog"

	sdklog "github.com/tombee/swsdk/internal/log"
	sdkerrors "github.com/tombee/swsdk/pkg/errors"
)

// AuthScheme identifies an authentication scheme.
type AuthScheme string

const (
	// AuthSchemeBasic is HTTP Basic authentication.
	AuthSchemeBasic AuthScheme = "basic"
	// AuthSchemeBearer is HTTP Bearer token authentication.
	AuthSchemeBearer AuthScheme = "bearer"
	// AuthSchemeOAuth2 is OAuth 2.0 token acquisition.
	AuthSchemeOAuth2 AuthScheme = "oauth2"
)

// IsValid reports whether s is a known scheme.
func (s AuthScheme) IsValid() bool {
	switch s {
	case AuthSchemeBasic, AuthSchemeBearer, AuthSchemeOAuth2:
		return true
	}
	return false
}

// OAuth2 grant types.
const (
	GrantTypePassword          = "password"
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeTokenExchange     = "token_exchange"
)

// AuthProperties is the closed set of authentication property variants:
// *BasicAuthProperties, *BearerAuthProperties, *OAuth2AuthProperties and
// SecretProperties.
type AuthProperties interface {
	// Scheme returns the scheme the variant belongs to. SecretProperties
	// returns "" because the referenced secret can hold any scheme.
	Scheme() AuthScheme

	isAuthProperties()
}

// BasicAuthProperties configures a 'basic' authentication scheme.
type BasicAuthProperties struct {
	// Username to use when authenticating.
	Username string `json:"username" yaml:"username"`

	// Password to use when authenticating. The wire key is always "password".
	Password string `json:"password" yaml:"password"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Scheme implements AuthProperties.
func (*BasicAuthProperties) Scheme() AuthScheme { return AuthSchemeBasic }

func (*BasicAuthProperties) isAuthProperties() {}

// LogValue implements slog.LogValuer so passwords never reach log output.
func (p *BasicAuthProperties) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", p.Username),
		slog.String("password", sdklog.SanitizeSecret(p.Password)),
	)
}

// BearerAuthProperties configures a 'bearer' authentication scheme.
type BearerAuthProperties struct {
	// Token is the bearer token sent in the Authorization header.
	Token string `json:"token" yaml:"token"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Scheme implements AuthProperties.
func (*BearerAuthProperties) Scheme() AuthScheme { return AuthSchemeBearer }

func (*BearerAuthProperties) isAuthProperties() {}

// LogValue implements slog.LogValuer.
func (p *BearerAuthProperties) LogValue() slog.Value {
	return slog.GroupValue(slog.String("token", sdklog.SanitizeSecret(p.Token)))
}

// OAuth2AuthProperties configures an 'oauth2' authentication scheme.
type OAuth2AuthProperties struct {
	// Authority is the token endpoint of the authorization server.
	Authority string `json:"authority,omitempty" yaml:"authority,omitempty"`

	// GrantType is one of password, client_credentials or token_exchange.
	GrantType string `json:"grantType" yaml:"grantType"`

	ClientID     string   `json:"clientId" yaml:"clientId"`
	ClientSecret string   `json:"clientSecret,omitempty" yaml:"clientSecret,omitempty"`
	Scopes       []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`

	// Username and Password are used by the password grant.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	Audiences        []string `json:"audiences,omitempty" yaml:"audiences,omitempty"`
	SubjectToken     string   `json:"subjectToken,omitempty" yaml:"subjectToken,omitempty"`
	RequestedSubject string   `json:"requestedSubject,omitempty" yaml:"requestedSubject,omitempty"`
	RequestedIssuer  string   `json:"requestedIssuer,omitempty" yaml:"requestedIssuer,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Scheme implements AuthProperties.
func (*OAuth2AuthProperties) Scheme() AuthScheme { return AuthSchemeOAuth2 }

func (*OAuth2AuthProperties) isAuthProperties() {}

// LogValue implements slog.LogValuer.
func (p *OAuth2AuthProperties) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("authority", p.Authority),
		slog.String("grantType", p.GrantType),
		slog.String("clientId", p.ClientID),
		slog.String("clientSecret", sdklog.SanitizeSecret(p.ClientSecret)),
		slog.String("username", p.Username),
		slog.String("password", sdklog.SanitizeSecret(p.Password)),
		slog.String("subjectToken", sdklog.SanitizeSecret(p.SubjectToken)),
	)
}

// SecretProperties names a workflow secret that holds the properties.
// On the wire it is a bare string in place of the properties object.
type SecretProperties string

// Scheme implements AuthProperties.
func (SecretProperties) Scheme() AuthScheme { return "" }

func (SecretProperties) isAuthProperties() {}

// AuthDefinition is a named authentication configuration that function
// definitions refer to.
type AuthDefinition struct {
	// Name uniquely identifies the definition within a workflow.
	Name string `json:"name" yaml:"name"`

	// Scheme selects the Properties variant. Empty means basic.
	Scheme AuthScheme `json:"scheme,omitempty" yaml:"scheme,omitempty"`

	Properties AuthProperties `json:"properties" yaml:"properties"`
}

// EffectiveScheme returns the declared scheme, or basic when none is set.
func (d *AuthDefinition) EffectiveScheme() AuthScheme {
	if d.Scheme == "" {
		return AuthSchemeBasic
	}
	return d.Scheme
}

// Validate checks that the definition carries the fields its scheme needs.
func (d *AuthDefinition) Validate() error {
	if d.Name == "" {
		return &sdkerrors.ValidationError{
			Field:      "name",
			Message:    "auth definition name is required",
			Suggestion: "Give the auth definition a unique name",
		}
	}

	scheme := d.EffectiveScheme()
	if !scheme.IsValid() {
		return &sdkerrors.ValidationError{
			Field:      "scheme",
			Message:    fmt.Sprintf("unknown scheme %q", d.Scheme),
			Suggestion: "Use one of: basic, bearer, oauth2",
		}
	}

	if d.Properties == nil {
		return &sdkerrors.ValidationError{
			Field:   "properties",
			Message: "auth properties are required",
		}
	}

	if ps := d.Properties.Scheme(); ps != "" && ps != scheme {
		return &sdkerrors.ValidationError{
			Field:   "properties",
			Message: fmt.Sprintf("%s properties do not match scheme %q", ps, scheme),
		}
	}

	switch p := d.Properties.(type) {
	case *BasicAuthProperties:
		if p.Username == "" {
			return requiredField("properties.username")
		}
		if p.Password == "" {
			return requiredField("properties.password")
		}
	case *BearerAuthProperties:
		if p.Token == "" {
			return requiredField("properties.token")
		}
	case *OAuth2AuthProperties:
		return p.validate()
	case SecretProperties:
		if p == "" {
			return requiredField("properties")
		}
	}

	return nil
}

func (p *OAuth2AuthProperties) validate() error {
	if p.ClientID == "" {
		return requiredField("properties.clientId")
	}

	switch p.GrantType {
	case GrantTypeClientCredentials:
	case GrantTypePassword:
		if p.Username == "" {
			return requiredField("properties.username")
		}
		if p.Password == "" {
			return requiredField("properties.password")
		}
	case GrantTypeTokenExchange:
		if p.SubjectToken == "" {
			return requiredField("properties.subjectToken")
		}
	case "":
		return requiredField("properties.grantType")
	default:
		return &sdkerrors.ValidationError{
			Field:      "properties.grantType",
			Message:    fmt.Sprintf("unknown grant type %q", p.GrantType),
			Suggestion: "Use one of: password, client_credentials, token_exchange",
		}
	}

	return nil
}

func requiredField(field string) error {
	return &sdkerrors.ValidationError{
		Field:   field,
		Message: "required field is missing",
	}
}
