// Package service defines the backend-agnostic interfaces for task and
// authentication operations.
package service

import "context"

// Service defines the task operations of the backend.
// Commands never talk HTTP directly; they go through this interface.
type Service interface {
	// ListTasks returns every task of the session's user, sorted by
	// priority on the server. The result is not reordered client-side.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its server id.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces the writable fields of a task.
	UpdateTask(ctx context.Context, id int64, in TaskInput) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error
}

// Auth defines the authentication operations of the backend.
// None of them require a session.
type Auth interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)

	// Signup registers an account. It does not log in.
	Signup(ctx context.Context, req SignupRequest) error

	// OAuthCallback exchanges a provider authorization code for a session token.
	OAuthCallback(ctx context.Context, req OAuthCallbackRequest) (AuthResponse, error)
}
