package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Process exit codes shared by the commands in this module.
const (
	CodeFailure      = 1
	CodeUsage        = 2
	CodeDuplicateID  = 3
	CodeMarkerRegion = 4
)

// ExitError attaches a process exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// WithCode wraps err so that Exit terminates with code. A nil err stays nil.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// CodeOf returns the exit code carried by err, or CodeFailure.
func CodeOf(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return CodeFailure
}

// Report prints the error the way Exit does, without exiting.
func Report(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
}

// Exit prints the error and exits the program with the code it carries (1 by default).
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(CodeOf(err))
}
