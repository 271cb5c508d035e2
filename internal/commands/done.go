package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tdash/internal/exitcode"
	"tdash/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	view string
}

// SetView sets the view positions are counted in (for testing).
func (c *DoneCmd) SetView(view string) {
	c.view = view
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task done" }
func (c *DoneCmd) Usage() string     { return "tdash done [--view <view>] <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.view, "view", "", "")
	fs.StringVar(&c.view, "v", "", "")
}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, env, c.view, service.StatusDone, args, out, errOut)
}

// UndoCmd marks a done task as not started again.
type UndoCmd struct {
	view string
}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Mark a task not started" }
func (c *UndoCmd) Usage() string     { return "tdash undo [--view <view>] <ref>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.view, "view", "", "")
	fs.StringVar(&c.view, "v", "", "")
}

func (c *UndoCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runSetStatus(ctx, env, c.view, service.StatusNotStarted, args, out, errOut)
}

// runSetStatus is the shared implementation for done and undo.
func runSetStatus(ctx context.Context, env *Env, view string, status service.Status, args []string, out, errOut io.Writer) int {
	d, task, code := resolveTask(ctx, env, view, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if _, err := d.SetStatus(ctx, task, status); err != nil {
		return reportBackend(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
