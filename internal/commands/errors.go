package commands

import (
	"errors"
	"fmt"
	"io"

	"tdash/internal/exitcode"
	"tdash/internal/service"
)

// reportBackend prints a failed backend call and returns its exit code.
// Backend messages are shown verbatim.
func reportBackend(errOut io.Writer, err error) int {
	var te *service.TransportError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: %s\n", service.Message(err))
		return exitcode.AuthError
	case errors.As(err, &te):
		fmt.Fprintf(errOut, "error: backend unreachable: %v\n", te.Err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %s\n", service.Message(err))
		return exitcode.BackendError
	}
}

// reportAuth prints a failed login and returns exitcode.AuthError.
func reportAuth(errOut io.Writer, err error) int {
	var te *service.TransportError
	if errors.As(err, &te) {
		fmt.Fprintf(errOut, "error: backend unreachable: %v\n", te.Err)
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: %s\n", service.Message(err))
	return exitcode.AuthError
}
