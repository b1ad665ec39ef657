package cli

import (
	"errors"
	"fmt"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// Exit codes.
const (
	ExitClean     = 0
	ExitViolation = 1
	ExitInvalid   = 2
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code. Errors
// without an explicit code are invocation errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInvalid
}

// thresholdError reports a report that has violations at or above its
// threshold.
func thresholdError(report *domain.Report) error {
	n := len(report.Failing())
	noun := "violations"
	if n == 1 {
		noun = "violation"
	}
	return &ExitError{
		Code: ExitViolation,
		Err:  fmt.Errorf("%d %s at or above threshold %q", n, noun, report.Threshold),
	}
}
