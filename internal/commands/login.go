package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"tdash/internal/auth"
	"tdash/internal/exitcode"
	"tdash/internal/route"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "TDASH_PASSWORD"

func init() {
	Register(&LoginCmd{})
	Register(&SignupCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	identifier string
	password   string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in with username or email" }
func (c *LoginCmd) Usage() string {
	return "tdash login --identifier <id> [--password <pw>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.identifier, "identifier", "", "")
	fs.StringVar(&c.identifier, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	identifier := c.identifier
	if identifier == "" && len(args) == 1 {
		identifier = args[0]
	}
	password := c.password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}

	next, resp, err := auth.NewFlow(env.Auth, env.Session).Login(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			fmt.Fprintf(errOut, "error: identifier and password required (use --password or %s)\n", PasswordEnv)
			return exitcode.UserError
		}
		return reportAuth(errOut, err)
	}
	env.logger().Debug("logged in", "next", next)

	if !env.Config.Quiet {
		if resp.Username != "" {
			fmt.Fprintf(out, "ok (logged in as %s)\n", resp.Username)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	username string
	email    string
	password string
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "tdash signup --username <u> --email <e> [--password <pw>]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	password := c.password
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}

	next, err := auth.NewFlow(env.Auth, env.Session).Signup(ctx, c.username, c.email, password)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			fmt.Fprintf(errOut, "error: username, email and password required (use --password or %s)\n", PasswordEnv)
			return exitcode.UserError
		}
		return reportAuth(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "signup successful, please log in (run: %s)\n", route.Hint(next))
	}
	return exitcode.Success
}
