// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/niprov/niprov/internal/pipeline"
)

// DefaultShell is the host shell used when none is configured.
const DefaultShell = "/bin/sh"

// ShellLauncher runs commands through the host shell with "-c".
type ShellLauncher struct {
	// Shell is the interpreter path. Empty means DefaultShell.
	Shell string
	IO    IO
}

// NewShellLauncher creates a ShellLauncher using shell (DefaultShell when empty).
func NewShellLauncher(shell string, io IO) *ShellLauncher {
	return &ShellLauncher{Shell: shell, IO: io}
}

// ShellLine joins the program and its arguments with single spaces. Arguments
// are not escaped: quoting already present in them is for the shell to read.
func ShellLine(cmd *pipeline.Command) string {
	return strings.Join(cmd.Argv(), " ")
}

// Launch runs cmd to completion through the host shell.
func (l *ShellLauncher) Launch(ctx context.Context, cmd *pipeline.Command) error {
	shell := l.Shell
	if shell == "" {
		shell = DefaultShell
	}

	c := exec.CommandContext(ctx, shell, "-c", ShellLine(cmd))
	c.Dir = cmd.Dir
	c.Env = mergeEnv(os.Environ(), cmd.Env)
	c.Stdin = l.IO.Stdin
	c.Stdout = l.IO.Stdout
	c.Stderr = l.IO.Stderr

	return classifyExecError(ctx, shell, c.Run())
}
