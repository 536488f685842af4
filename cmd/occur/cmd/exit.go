package cmd

import "fmt"

// exitError is returned by commands to signal a specific exit code.
// Like grep: 0=found, 1=not found, 2=error.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.code == 1:
		return "no match"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

func (e exitError) Unwrap() error { return e.err }

// failed wraps err as an exit-2 error.
func failed(err error) error {
	return exitError{code: 2, err: err}
}

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	if ee, ok := err.(exitError); ok {
		return ee.code
	}
	return -1
}
