package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tdash/internal/route"
	"tdash/internal/service"
	"tdash/internal/session"
)

// ErrMissingCredentials is returned before any request when a required
// field is blank.
var ErrMissingCredentials = errors.New("missing credentials")

// Flow runs the email/password operations against a session.
type Flow struct {
	auth service.Auth
	sess *session.Session
}

// NewFlow creates a Flow.
func NewFlow(auth service.Auth, sess *session.Session) *Flow {
	return &Flow{auth: auth, sess: sess}
}

// Login exchanges credentials for a token, stores it and leads to the
// dashboard. On failure nothing is stored.
func (f *Flow) Login(ctx context.Context, identifier, password string) (route.Route, service.AuthResponse, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return route.Login, service.AuthResponse{}, fmt.Errorf("%w: identifier and password are required", ErrMissingCredentials)
	}

	resp, err := f.auth.Login(ctx, service.LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return route.Login, service.AuthResponse{}, err
	}
	if err := f.sess.Set(ctx, resp.Token); err != nil {
		return route.Login, service.AuthResponse{}, err
	}
	return route.Dashboard, resp, nil
}

// Signup registers an account and leads back to login; it does not log in.
func (f *Flow) Signup(ctx context.Context, username, email, password string) (route.Route, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return route.Login, fmt.Errorf("%w: username, email and password are required", ErrMissingCredentials)
	}

	if err := f.auth.Signup(ctx, service.SignupRequest{Username: username, Email: email, Password: password}); err != nil {
		return route.Login, err
	}
	return route.Login, nil
}

// Logout drops the session. It reports whether a token was held.
func (f *Flow) Logout(ctx context.Context) (bool, error) {
	if !f.sess.Present(ctx) {
		return false, nil
	}
	if err := f.sess.Clear(ctx); err != nil {
		return true, fmt.Errorf("failed to clear session: %w", err)
	}
	return true, nil
}
