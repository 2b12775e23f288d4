package cli

import (
	"errors"
	"fmt"

	"sembako/internal/config"
)

// Process exit codes returned through ExitError.
const (
	ExitCodeSuccess = 0
	ExitCodeGeneric = 1
	ExitCodeUsage   = 2
	ExitCodeStorage = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExitCode reports the code, treating a nil receiver as a generic failure.
func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitCodeUsage, Err: fmt.Errorf(format, args...)}
}

// mapCommandError assigns an exit code to err unless it already has one.
func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	if errors.Is(err, config.ErrInvalidConfig) {
		return &ExitError{Code: ExitCodeUsage, Err: err}
	}
	return &ExitError{Code: ExitCodeGeneric, Err: err}
}
