package lexer

import (
	"errors"
	"fmt"
)

var (
	// ErrConsistency reports corrupted token bookkeeping. The hierarchy that
	// returned it has been rebuilt from scratch.
	ErrConsistency = errors.New("token hierarchy consistency violation")

	// ErrMissingRemovedText reports a modification that removes characters
	// without supplying them.
	ErrMissingRemovedText = errors.New("removed text required when removed length > 0")

	// ErrUnsupported reports an operation an immutable view cannot perform.
	ErrUnsupported = errors.New("operation not supported by this token list")

	// ErrOutOfRange reports an offset or index outside of the text or list.
	ErrOutOfRange = errors.New("out of range")
)

// ConsistencyError describes an internal failure detected during an update.
type ConsistencyError struct {
	// Op is the operation that detected the failure.
	Op string

	// Detail describes the failed check.
	Detail string

	// Rebuilt is true when the hierarchy was discarded and lexed again.
	Rebuilt bool

	// Err holds aggregated validation failures, if any.
	Err error
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Rebuilt {
		msg += " (hierarchy rebuilt)"
	}
	return msg
}

// Is makes errors.Is(err, ErrConsistency) match.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// PreconditionError describes a modification rejected before any change.
type PreconditionError struct {
	Mod     Modification
	Message string
	Err     error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("invalid modification at %d (-%d +%d): %s",
		e.Mod.Offset, e.Mod.RemovedLength, e.Mod.InsertedLength, e.Message)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// consistencyPanic is raised by internal checks and recovered at the
// hierarchy boundary only.
type consistencyPanic struct {
	op     string
	detail string
}

func raise(op, format string, args ...any) {
	panic(&consistencyPanic{op: op, detail: fmt.Sprintf(format, args...)})
}

func unsupported(op string) error {
	return fmt.Errorf("%s: %w", op, ErrUnsupported)
}
