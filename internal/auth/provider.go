// Package auth implements email/password authentication and the OAuth2
// redirect handshake.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider is an OAuth2 identity provider supported by the backend.
type Provider string

const (
	Google Provider = "google"
	GitHub Provider = "github"
)

// Providers lists the supported providers in display order.
var Providers = []Provider{Google, GitHub}

// ErrUnknownProvider is returned for a provider name the backend does not support.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrNoClientID is returned when no OAuth client id is configured for a provider.
var ErrNoClientID = errors.New("no client id configured")

// ParseProvider converts a provider name, case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Google, GitHub:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (want google or github)", ErrUnknownProvider, s)
}

// Scopes returns the scopes requested from the provider.
func (p Provider) Scopes() []string {
	switch p {
	case Google:
		return []string{"email", "profile"}
	case GitHub:
		return []string{"user:email"}
	}
	return nil
}

// Endpoint returns the provider's OAuth2 endpoints.
func (p Provider) Endpoint() oauth2.Endpoint {
	switch p {
	case Google:
		return google.Endpoint
	case GitHub:
		return github.Endpoint
	}
	return oauth2.Endpoint{}
}

// OAuthConfig builds the client-side OAuth2 configuration. There is no
// client secret: the backend performs the token exchange.
func (p Provider) OAuthConfig(clientID, redirectURI string) (*oauth2.Config, error) {
	if p.Endpoint() == (oauth2.Endpoint{}) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, string(p))
	}
	if clientID == "" {
		return nil, fmt.Errorf("%w for %s (set TDASH_%s_CLIENT_ID)", ErrNoClientID, p, strings.ToUpper(string(p)))
	}
	return &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    p.Endpoint(),
		RedirectURL: redirectURI,
		Scopes:      p.Scopes(),
	}, nil
}

// AuthURL returns the authorization URL the user opens to start a login.
// It carries response_type=code and the given state.
func (p Provider) AuthURL(clientID, redirectURI, state string) (string, error) {
	cfg, err := p.OAuthConfig(clientID, redirectURI)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state), nil
}

// providerFromState derives the provider from a callback's state parameter.
// An empty state means google. A "<provider>.<nonce>" state yields the prefix.
func providerFromState(state string) (Provider, error) {
	if state == "" {
		return Google, nil
	}
	name, _, _ := strings.Cut(state, ".")
	return ParseProvider(name)
}
