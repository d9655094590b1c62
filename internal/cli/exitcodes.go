package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes for relex.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitTokensDiverged indicates incremental lexing disagreed with a
	// fresh lex of the same text.
	ExitTokensDiverged = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates a bad configuration file or edit script.
	ExitDataError = 65

	// ExitInternalError indicates an internal error, e.g. a broken
	// hierarchy invariant.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrTokensDiverged is returned when replay or stress found a document whose
// incremental tokens differ from a fresh lex.
var ErrTokensDiverged = errors.New("incremental tokens diverged from batch lexing")

// ExitError attaches an exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// withCode wraps err with an exit code. Nil stays nil.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// usageError reports invalid command-line usage.
func usageError(format string, args ...any) error {
	return withCode(ExitInvalidUsage, fmt.Errorf(format, args...))
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrTokensDiverged) {
		return ExitTokensDiverged
	}
	return ExitInternalError
}

// usageArgs gives argument validation errors the usage exit code.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withCode(ExitInvalidUsage, check(cmd, args))
	}
}
