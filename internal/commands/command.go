// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"time"

	"tdash/internal/config"
	"tdash/internal/dashboard"
	"tdash/internal/service"
	"tdash/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a session token.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// env is always provided; for NeedsAuth commands a token is present.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env is what a command runs against.
type Env struct {
	Config  *config.Config
	Session *session.Session
	Tasks   service.Service
	Auth    service.Auth
	Log     *slog.Logger

	// Now is the clock used for views. Defaults to time.Now.
	Now func() time.Time
}

// Dashboard returns an empty dashboard over the env's task service.
func (e *Env) Dashboard() *dashboard.Dashboard {
	return dashboard.New(e.Tasks, dashboard.WithClock(e.now), dashboard.WithLogger(e.logger()))
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}
