package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tdash/internal/auth"
	"tdash/internal/exitcode"
	"tdash/internal/route"
)

func init() {
	Register(&OAuthCmd{})
}

// OAuthCmd implements the oauth command: it prints the provider's
// authorization URL and waits for the redirect on the configured callback.
type OAuthCmd struct{}

func (c *OAuthCmd) Name() string      { return "oauth" }
func (c *OAuthCmd) Aliases() []string { return nil }
func (c *OAuthCmd) Synopsis() string  { return "Log in with Google or GitHub" }
func (c *OAuthCmd) Usage() string     { return "tdash oauth <google|github>" }
func (c *OAuthCmd) NeedsAuth() bool   { return false }

func (c *OAuthCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *OAuthCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: provider required (google or github)")
		return exitcode.UserError
	}
	provider, err := auth.ParseProvider(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	settings := env.Config.Settings
	h := auth.NewHandshake(settings, env.Auth, env.Session, env.logger())

	authURL, err := h.Initiate(provider)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, auth.ErrNoClientID) {
			return exitcode.AuthError
		}
		return exitcode.UserError
	}

	ln, path, err := auth.Listen(settings.RedirectURI)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	// Print URL to stderr
	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	r := &auth.Receiver{Handshake: h, Path: path, Log: env.logger()}
	res := r.Serve(ctx, ln)
	if res.Err != nil {
		code := reportAuth(errOut, res.Err)
		if hint := route.Hint(res.Next); hint != "" {
			fmt.Fprintf(errOut, "run: %s\n", hint)
		}
		return code
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
