package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tdash/internal/dashboard"
	"tdash/internal/exitcode"
	"tdash/internal/service"
)

// resolveTask fetches the collection and finds the task args refer to.
// On failure it prints the error and returns a non-zero exit code.
func resolveTask(ctx context.Context, env *Env, viewName string, args []string, errOut io.Writer) (*dashboard.Dashboard, service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return nil, service.Task{}, exitcode.UserError
	}

	view, err := dashboard.ParseView(viewName)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}

	d := env.Dashboard()
	if err := d.Refresh(ctx); err != nil {
		return nil, service.Task{}, reportBackend(errOut, err)
	}

	task, err := ref.Resolve(d, view)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}
	return d, task, exitcode.Success
}
