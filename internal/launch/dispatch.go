// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"

	"github.com/niprov/niprov/internal/pipeline"
)

const (
	// ShellHost runs shell-launched commands with the host shell.
	ShellHost ShellKind = "host"
	// ShellVirtual runs shell-launched commands with the embedded interpreter.
	ShellVirtual ShellKind = "virtual"
)

// ErrInvalidShellKind is returned when a ShellKind value is not recognized.
var ErrInvalidShellKind = errors.New("invalid shell kind")

type (
	// ShellKind selects the interpreter behind pipeline.LaunchShell.
	ShellKind string

	// Dispatcher routes each command to the launcher matching its LaunchMode.
	Dispatcher struct {
		Direct pipeline.Launcher
		Shell  pipeline.Launcher
	}
)

// String returns the string representation of the ShellKind.
func (k ShellKind) String() string { return string(k) }

// Validate returns an error if the ShellKind is not host or virtual.
func (k ShellKind) Validate() error {
	switch k {
	case ShellHost, ShellVirtual:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: host, virtual)", ErrInvalidShellKind, string(k))
	}
}

// NewDispatcher wires a direct launcher and the shell launcher selected by kind.
// hostShell overrides the host interpreter path; it is ignored for ShellVirtual.
func NewDispatcher(kind ShellKind, hostShell string, io IO) (*Dispatcher, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	d := &Dispatcher{Direct: NewDirectLauncher(io)}
	if kind == ShellVirtual {
		d.Shell = NewVirtualShellLauncher(io)
	} else {
		d.Shell = NewShellLauncher(hostShell, io)
	}
	return d, nil
}

// Launch implements pipeline.Launcher.
func (d *Dispatcher) Launch(ctx context.Context, cmd *pipeline.Command) error {
	switch cmd.Launch {
	case pipeline.LaunchShell:
		return d.Shell.Launch(ctx, cmd)
	case pipeline.LaunchDirect, "":
		return d.Direct.Launch(ctx, cmd)
	default:
		return cmd.Launch.Validate()
	}
}
