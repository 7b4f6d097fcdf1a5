// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"fmt"

	"github.com/niprov/niprov/pkg/types"
)

var (
	// ErrLaunchFailed is the sentinel error wrapped by LaunchError.
	ErrLaunchFailed = errors.New("command could not be started")
	// ErrNonZeroExit is the sentinel error wrapped by ExitStatusError.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
)

type (
	// LaunchError reports a process that never ran: program not found,
	// missing working directory, permission denied and the like.
	LaunchError struct {
		Program string
		Err     error
	}

	// ExitStatusError reports a process that ran and exited non-zero.
	ExitStatusError struct {
		Program string
		Code    types.ExitCode
	}

	// InterruptedError reports a process stopped or never started because
	// its context was done. Err is the context's error.
	InterruptedError struct {
		Program string
		Err     error
	}
)

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Program, e.Err)
}

// Unwrap returns both ErrLaunchFailed and the underlying cause.
func (e *LaunchError) Unwrap() []error { return []error{ErrLaunchFailed, e.Err} }

// ExitCode returns the conventional status for a command that could not run.
func (e *LaunchError) ExitCode() types.ExitCode { return types.ExitLaunchFailure }

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Program, e.Code)
}

// Unwrap returns ErrNonZeroExit for errors.Is() compatibility.
func (e *ExitStatusError) Unwrap() error { return ErrNonZeroExit }

// ExitCode returns the child's exit status.
func (e *ExitStatusError) ExitCode() types.ExitCode { return e.Code }

// Error implements the error interface.
func (e *InterruptedError) Error() string {
	return fmt.Sprintf("%s interrupted: %v", e.Program, e.Err)
}

// Unwrap returns the context error for errors.Is(err, context.Canceled).
func (e *InterruptedError) Unwrap() error { return e.Err }

// ExitCode returns the generic failure status.
func (e *InterruptedError) ExitCode() types.ExitCode { return types.ExitFailure }
