package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdash/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. Commands are listed from Registry,
// or DefaultRegistry when nil.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tdash help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	fmt.Fprint(out, "Usage:\n  tdash [common flags]\n      Show the inbox\n")
	for _, sec := range reg.Sections() {
		fmt.Fprintf(out, "\n%s:\n", sec.Group)
		for _, cmd := range sec.Commands {
			fmt.Fprintf(out, "  %s\n      %s\n", cmd.Usage(), cmd.Synopsis())
		}
	}
	fmt.Fprint(out, helpTrailer)
	return exitcode.Success
}

const helpTrailer = `
Task references:
  <n>              Position in the view, as printed by list
  #<id>            Server id, as printed at the end of each line

Deadlines:
  YYYY-MM-DD       End of that day (23:59)
  YYYY-MM-DD HH:MM Local time

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Passwords may be given in TDASH_PASSWORD instead of --password.
`
