package cmd

import (
	"errors"
	"fmt"
)

// exitError carries a grep-style exit code: 0 match, 1 no match, 2 error.
type exitError struct{ code int }

func (e exitError) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "no match"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

// ExitCode maps an Execute error to a process exit code. Errors other than
// exitError are failures and map to 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 2
}

// Reportable reports whether err should be printed. exitError values have
// already produced their output.
func Reportable(err error) bool {
	var ee exitError
	return err != nil && !errors.As(err, &ee)
}
