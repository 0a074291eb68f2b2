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

package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrUnresolvedSecret is returned when a definition still points at a
// workflow secret instead of carrying its properties inline.
var ErrUnresolvedSecret = errors.New("auth properties reference a secret that has not been resolved")

// Apply sets HTTP Basic credentials on req.
func (p *BasicAuthProperties) Apply(req *http.Request) {
	req.SetBasicAuth(p.Username, p.Password)
}

// Apply sets a Bearer Authorization header on req.
func (p *BearerAuthProperties) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.Token)
}

// TokenSource returns a token source for the configured grant. Authority is
// used as the token endpoint URL. Requests to it go through the *http.Client
// stored in ctx under oauth2.HTTPClient, when present.
func (p *OAuth2AuthProperties) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if p.Authority == "" {
		return nil, fmt.Errorf("oauth2 authority is required to request tokens")
	}

	switch p.GrantType {
	case GrantTypeClientCredentials:
		cfg := clientcredentials.Config{
			ClientID:       p.ClientID,
			ClientSecret:   p.ClientSecret,
			TokenURL:       p.Authority,
			Scopes:         p.Scopes,
			EndpointParams: p.endpointParams(),
		}
		return cfg.TokenSource(ctx), nil

	case GrantTypePassword:
		cfg := &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: p.Authority},
			Scopes:       p.Scopes,
		}
		tok, err := cfg.PasswordCredentialsToken(ctx, p.Username, p.Password)
		if err != nil {
			return nil, fmt.Errorf("password grant failed: %w", err)
		}
		return cfg.TokenSource(ctx, tok), nil

	default:
		return nil, fmt.Errorf("oauth2 grant type %q is not supported for token acquisition", p.GrantType)
	}
}

func (p *OAuth2AuthProperties) endpointParams() url.Values {
	if len(p.Audiences) == 0 {
		return nil
	}
	return url.Values{"audience": p.Audiences}
}

// Authorize adds the credentials described by d to req. OAuth2 definitions
// request a new token on every call; callers authorizing many requests should
// hold the TokenSource from OAuth2AuthProperties.TokenSource instead, which
// reuses a token until it expires.
func (d *AuthDefinition) Authorize(ctx context.Context, req *http.Request) error {
	switch p := d.Properties.(type) {
	case *BasicAuthProperties:
		p.Apply(req)
	case *BearerAuthProperties:
		p.Apply(req)
	case *OAuth2AuthProperties:
		ts, err := p.TokenSource(ctx)
		if err != nil {
			return err
		}
		tok, err := ts.Token()
		if err != nil {
			return fmt.Errorf("failed to obtain oauth2 token: %w", err)
		}
		tok.SetAuthHeader(req)
	case SecretProperties:
		return fmt.Errorf("%w: %s", ErrUnresolvedSecret, string(p))
	case nil:
		return fmt.Errorf("auth definition %q has no properties", d.Name)
	}
	return nil
}
