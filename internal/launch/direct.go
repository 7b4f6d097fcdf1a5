// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/niprov/niprov/internal/pipeline"
	"github.com/niprov/niprov/pkg/types"
)

// quoteStripper removes shell quote characters. Direct launches never pass
// through a shell, so a quote in an argument would reach the tool literally.
var quoteStripper = strings.NewReplacer(`'`, "", `"`, "")

// DirectLauncher execs programs without a shell.
type DirectLauncher struct {
	IO IO
}

// NewDirectLauncher creates a DirectLauncher streaming to io.
func NewDirectLauncher(io IO) *DirectLauncher {
	return &DirectLauncher{IO: io}
}

// StripQuotes returns a copy of args with every ' and " removed.
func StripQuotes(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quoteStripper.Replace(a)
	}
	return out
}

// Launch runs cmd to completion.
func (l *DirectLauncher) Launch(ctx context.Context, cmd *pipeline.Command) error {
	args := cmd.Args
	if cmd.StripQuotes {
		args = StripQuotes(args)
	}
	c := exec.CommandContext(ctx, cmd.Path, args...)
	c.Dir = cmd.Dir
	c.Env = mergeEnv(os.Environ(), cmd.Env)
	c.Stdin = l.IO.Stdin
	c.Stdout = l.IO.Stdout
	c.Stderr = l.IO.Stderr

	return classifyExecError(ctx, cmd.Path, c.Run())
}

// classifyExecError maps an os/exec error onto LaunchError or ExitStatusError.
// Any failure after ctx is done becomes an InterruptedError, since the
// process was either killed or never started because of it.
func classifyExecError(ctx context.Context, program string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &InterruptedError{Program: program, Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal; report a generic failure status.
			code = int(types.ExitFailure)
		}
		return &ExitStatusError{Program: program, Code: types.ExitCode(code)}
	}
	return &LaunchError{Program: program, Err: err}
}
