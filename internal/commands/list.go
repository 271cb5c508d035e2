package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdash/internal/dashboard"
	"tdash/internal/exitcode"
	"tdash/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tdash` (no args, inbox) and `tdash list --view <view>`.
type ListCmd struct {
	view string
}

// SetView sets the view name (for testing).
func (c *ListCmd) SetView(view string) {
	c.view = view
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks in a view" }
func (c *ListCmd) Usage() string     { return "tdash list [--view inbox|today|upcoming]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.view, "view", "", "")
	fs.StringVar(&c.view, "v", "", "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	view, err := dashboard.ParseView(c.view)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	d := env.Dashboard()
	if err := d.Refresh(ctx); err != nil {
		return reportBackend(errOut, err)
	}

	tasks := d.View(view)
	output.FormatViewHeader(out, string(view), len(tasks))
	now := d.Now()
	for i, task := range tasks {
		output.FormatTask(out, i+1, task, now)
	}

	if len(tasks) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
