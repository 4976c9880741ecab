package cli

import (
	"context"
	"errors"
)

// Exit codes returned by the batchren binary.
const (
	ExitSuccess     = 0   // Success, including a declined confirmation
	ExitError       = 1   // Invalid option or any other failure
	ExitUsageError  = 2   // Missing arguments or unknown flags
	ExitInterrupted = 130 // Stopped by SIGINT
)

// ErrUsage marks command-line usage errors.
var ErrUsage = errors.New("usage error")

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() []error {
	return []error{ErrUsage, e.err}
}

func newUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// ExitCodeForError returns the process exit code for err. Validation
// failures and everything unclassified map to ExitError.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	}

	return ExitError
}
