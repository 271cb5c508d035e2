// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task reference).
	UserError = 1

	// AuthError indicates an auth error (no session, rejected login, 401).
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)
