package testutil

import (
	"context"
	"testing"

	"tdash/internal/session"
)

// NewSession returns a session backed by a memory store, optionally holding
// token.
func NewSession(t *testing.T, token string) *session.Session {
	t.Helper()
	sess := session.New(session.NewMemoryStore())
	if token != "" {
		if err := sess.Set(context.Background(), token); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}
	return sess
}

// SessionToken returns the held token, or "" if none.
func SessionToken(t *testing.T, sess *session.Session) string {
	t.Helper()
	token, err := sess.Token(context.Background())
	if err != nil {
		return ""
	}
	return token
}
