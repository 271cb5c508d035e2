package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tdash/internal/exitcode"
	"tdash/internal/route"
	"tdash/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd reports the session. Claims are only shown when the token
// verifies against the configured jwt_secret.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return []string{"status"} }
func (c *WhoamiCmd) Synopsis() string  { return "Show the current session" }
func (c *WhoamiCmd) Usage() string     { return "tdash whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	token, err := env.Session.Token(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: not logged in (run: %s)\n", route.Hint(route.Login))
		return exitcode.AuthError
	}

	claims, err := session.VerifyClaims(token, []byte(env.Config.Settings.JWTSecret), env.now())
	switch {
	case errors.Is(err, session.ErrNoSecret):
		fmt.Fprintln(out, "logged in")
		return exitcode.Success
	case err != nil:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	fmt.Fprintf(out, "logged in as %s\n", claims.Subject)
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return exitcode.Success
}
