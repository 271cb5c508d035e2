package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Session is the explicit holder of the current token. It is handed to the
// HTTP layer instead of being looked up globally.
type Session struct {
	store Store
}

// New wraps a store.
func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the stored token, or ErrNoToken.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.store.Load(ctx)
}

// Present reports whether a token is held. Load failures count as absent.
func (s *Session) Present(ctx context.Context) bool {
	_, err := s.store.Load(ctx)
	return err == nil
}

// Set replaces the held token. Empty tokens are rejected so that a partial
// or malformed auth response never lands in the store.
func (s *Session) Set(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty session token")
	}
	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Clear drops the held token.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}
