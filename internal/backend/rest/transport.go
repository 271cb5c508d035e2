package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"tdash/internal/session"
)

// sessionTransport attaches the session token as a bearer credential and
// clears the session when the backend answers 401. It never redirects or
// retries; the caller decides what a 401 means.
type sessionTransport struct {
	sess *session.Session
	base http.RoundTripper
	log  *slog.Logger
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.sess.Token(ctx)
	switch {
	case err == nil:
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(ctx)
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	case errors.Is(err, session.ErrNoToken):
	default:
		t.log.Warn("session unreadable, sending request without token", "error", err)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := t.sess.Clear(ctx); err != nil {
			t.log.Warn("failed to clear session after 401", "error", err)
		} else {
			t.log.Debug("session cleared after 401", "path", req.URL.Path)
		}
	}
	return resp, nil
}
