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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the given fields change; the
// rest are sent as currently stored.
type EditCmd struct {
	view          string
	description   *string
	priority      *string
	deadline      *string
	clearDeadline bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "tdash edit [--description D] [--priority P] [--deadline T|--clear-deadline] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.description, c.priority, c.deadline = nil, nil, nil
	fs.StringVar(&c.view, "view", "", "")
	fs.Func("description", "", func(s string) error { c.description = &s; return nil })
	fs.Func("priority", "", func(s string) error { c.priority = &s; return nil })
	fs.Func("p", "", func(s string) error { c.priority = &s; return nil })
	fs.Func("deadline", "", func(s string) error { c.deadline = &s; return nil })
	fs.Func("d", "", func(s string) error { c.deadline = &s; return nil })
	fs.BoolVar(&c.clearDeadline, "clear-deadline", false, "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if c.deadline != nil && c.clearDeadline {
		fmt.Fprintln(errOut, "error: cannot use both --deadline and --clear-deadline")
		return exitcode.UserError
	}
	if c.description == nil && c.priority == nil && c.deadline == nil && !c.clearDeadline {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	in, code := c.validate(errOut)
	if code != exitcode.Success {
		return code
	}

	d, task, code := resolveTask(ctx, env, c.view, args, errOut)
	if code != exitcode.Success {
		return code
	}

	payload := task.Input()
	if c.description != nil {
		payload.Description = in.Description
	}
	if c.priority != nil {
		payload.Priority = in.Priority
	}
	if c.deadline != nil {
		payload.Deadline = in.Deadline
	}
	if c.clearDeadline {
		payload.Deadline = nil
	}

	updated, err := d.Update(ctx, task.ID, payload)
	if err != nil {
		return reportBackend(errOut, err)
	}

	if !env.Config.Quiet {
		output.FormatTaskDetail(out, updated)
	}
	return exitcode.Success
}

// validate parses the given flag values before anything is fetched.
func (c *EditCmd) validate(errOut io.Writer) (service.TaskInput, int) {
	var in service.TaskInput
	var err error

	if c.description != nil {
		in.Description = strings.TrimSpace(*c.description)
		if in.Description == "" {
			fmt.Fprintln(errOut, "error: description must not be blank")
			return in, exitcode.UserError
		}
	}
	if c.priority != nil {
		if in.Priority, err = service.ParsePriority(*c.priority); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return in, exitcode.UserError
		}
	}
	if c.deadline != nil {
		if in.Deadline, err = service.ParseDeadline(*c.deadline); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return in, exitcode.UserError
		}
	}
	return in, exitcode.Success
}
