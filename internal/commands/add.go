package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tdash/internal/exitcode"
	"tdash/internal/output"
	"tdash/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority string
	status   string
	deadline string
}

// SetOptions sets the flag values (for testing).
func (c *AddCmd) SetOptions(priority, status, deadline string) {
	c.priority, c.status, c.deadline = priority, status, deadline
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tdash add [--priority P] [--status S] [--deadline T] <description...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}

	in := service.TaskInput{Description: description}

	var err error
	if c.priority != "" {
		if in.Priority, err = service.ParsePriority(c.priority); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.status != "" {
		if in.Status, err = service.ParseStatus(c.status); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if c.deadline != "" {
		if in.Deadline, err = service.ParseDeadline(c.deadline); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	task, err := env.Dashboard().Create(ctx, in)
	if err != nil {
		return reportBackend(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTaskDetail(out, task)
	}
	return exitcode.Success
}
