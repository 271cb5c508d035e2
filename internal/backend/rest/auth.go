package rest

import (
	"context"
	"errors"
	"net/http"

	"tdash/internal/service"
)

// errNoToken is returned when a 2xx auth response carries no token.
var errNoToken = errors.New("authentication response contained no token")

// Login implements service.Auth.
func (c *Client) Login(ctx context.Context, req service.LoginRequest) (service.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

// Signup implements service.Auth.
func (c *Client) Signup(ctx context.Context, req service.SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", nil, req, nil)
}

// OAuthCallback implements service.Auth.
func (c *Client) OAuthCallback(ctx context.Context, req service.OAuthCallbackRequest) (service.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/oauth2/callback", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (service.AuthResponse, error) {
	var resp service.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return service.AuthResponse{}, err
	}
	if resp.Token == "" {
		return service.AuthResponse{}, errNoToken
	}
	return resp, nil
}
