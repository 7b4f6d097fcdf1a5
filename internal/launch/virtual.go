// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/niprov/niprov/internal/pipeline"
	"github.com/niprov/niprov/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualShellLauncher interprets the shell line with the embedded mvdan/sh
// interpreter instead of a host shell. Quoting rules are POSIX/bash, so the
// same lines work with either shell launcher.
type VirtualShellLauncher struct {
	IO IO
}

// NewVirtualShellLauncher creates a VirtualShellLauncher streaming to io.
func NewVirtualShellLauncher(io IO) *VirtualShellLauncher {
	return &VirtualShellLauncher{IO: io}
}

// Launch parses and runs cmd's shell line.
func (l *VirtualShellLauncher) Launch(ctx context.Context, cmd *pipeline.Command) error {
	line := ShellLine(cmd)
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), cmd.Path)
	if err != nil {
		return &LaunchError{Program: cmd.Path, Err: fmt.Errorf("parsing shell line: %w", err)}
	}

	dir := cmd.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return &LaunchError{Program: cmd.Path, Err: err}
		}
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(mergeEnv(os.Environ(), cmd.Env)...)),
		interp.StdIO(l.IO.Stdin, l.IO.Stdout, l.IO.Stderr),
	)
	if err != nil {
		return &LaunchError{Program: cmd.Path, Err: fmt.Errorf("creating interpreter: %w", err)}
	}

	if err := runner.Run(ctx, prog); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &InterruptedError{Program: cmd.Path, Err: ctxErr}
		}
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitStatusError{Program: cmd.Path, Code: types.ExitCode(status)}
		}
		return &LaunchError{Program: cmd.Path, Err: err}
	}
	return nil
}
