// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	// LaunchDirect execs the program without a shell. Arguments reach the
	// program exactly as given unless Command.StripQuotes is set.
	LaunchDirect LaunchMode = "direct"
	// LaunchShell hands the joined command line to a shell interpreter, so
	// embedded quotes are interpreted by the shell and must reach it verbatim.
	LaunchShell LaunchMode = "shell"
)

var (
	// ErrInvalidLaunchMode is returned when a LaunchMode value is not recognized.
	ErrInvalidLaunchMode = errors.New("invalid launch mode")
	// ErrInvalidStep is the sentinel error wrapped by InvalidStepError.
	ErrInvalidStep = errors.New("invalid step")
)

type (
	// LaunchMode selects how a Command's process is started.
	LaunchMode string

	// Command describes one external process invocation.
	Command struct {
		// Path is the program to run, resolved through PATH when not absolute.
		Path string
		// Args is the argument vector. Entries may contain embedded quotes
		// meant for a shell; see LaunchMode.
		Args []string
		// Dir is the working directory. Empty means the current directory.
		Dir string
		// Env holds variables added on top of the inherited environment.
		Env map[string]string
		// Launch selects direct or shell-interpreted execution.
		Launch LaunchMode
		// StripQuotes removes ' and " from Args before a direct launch. It is
		// set on flag lists written for a shell that are run without one.
		// Shell launches ignore it.
		StripQuotes bool
	}

	// Step is one entry of a provisioning plan.
	Step struct {
		// Name is a stable identifier such as "download-toolchain".
		Name string
		// Command is the external process to run. Mutually exclusive with Action.
		Command *Command
		// Action is an in-process operation. Mutually exclusive with Command.
		Action func(ctx context.Context) error
		// SkipIf, when non-nil and met, causes the step to be skipped.
		SkipIf Condition
	}

	// InvalidStepError is returned by Step.Validate.
	InvalidStepError struct {
		Name   string
		Reason string
	}
)

// String returns the string representation of the LaunchMode.
func (m LaunchMode) String() string { return string(m) }

// Validate returns an error if the LaunchMode is not one of the defined modes.
// The zero value is treated as LaunchDirect.
func (m LaunchMode) Validate() error {
	switch m {
	case "", LaunchDirect, LaunchShell:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: direct, shell)", ErrInvalidLaunchMode, string(m))
	}
}

// Argv returns the program followed by its arguments.
func (c *Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// String renders the command line the way it is logged and shown in dry runs.
// Environment additions are prefixed in sorted KEY=VALUE form.
func (c *Command) String() string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(c.Env)) {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(c.Env[k])
		sb.WriteByte(' ')
	}
	sb.WriteString(strings.Join(c.Argv(), " "))
	return sb.String()
}

// Error implements the error interface.
func (e *InvalidStepError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid step: %s", e.Reason)
	}
	return fmt.Sprintf("invalid step %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidStep for errors.Is() compatibility.
func (e *InvalidStepError) Unwrap() error { return ErrInvalidStep }

// Validate checks that the step is runnable: it has a name and exactly one
// of Command or Action.
func (s Step) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &InvalidStepError{Reason: "missing name"}
	}
	switch {
	case s.Command == nil && s.Action == nil:
		return &InvalidStepError{Name: s.Name, Reason: "neither command nor action set"}
	case s.Command != nil && s.Action != nil:
		return &InvalidStepError{Name: s.Name, Reason: "both command and action set"}
	}
	if s.Command != nil {
		if strings.TrimSpace(s.Command.Path) == "" {
			return &InvalidStepError{Name: s.Name, Reason: "command has no program"}
		}
		if err := s.Command.Launch.Validate(); err != nil {
			return &InvalidStepError{Name: s.Name, Reason: err.Error()}
		}
	}
	return nil
}

// Describe returns a one-line human description of what the step does.
func (s Step) Describe() string {
	if s.Command != nil {
		return s.Command.String()
	}
	return "(in-process) " + s.Name
}
