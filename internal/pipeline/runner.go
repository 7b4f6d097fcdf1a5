// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niprov/niprov/pkg/types"
)

// ErrNoLauncher is returned when a command step runs without a Launcher.
var ErrNoLauncher = errors.New("no launcher configured")

type (
	// Launcher starts a Command and blocks until its process exits.
	// A nil return means the process exited with status 0.
	Launcher interface {
		Launch(ctx context.Context, cmd *Command) error
	}

	// Observer receives step lifecycle events. All methods are called on the
	// runner's goroutine, in step order.
	Observer interface {
		StepStarted(index int, step Step)
		StepSkipped(index int, step Step)
		StepFinished(index int, step Step, elapsed time.Duration)
	}

	// Runner executes steps sequentially and stops at the first failure.
	Runner struct {
		launcher Launcher
		observer Observer
	}

	// RunnerOption configures a Runner during construction.
	RunnerOption func(*Runner)

	// Result is the outcome of a run.
	Result struct {
		// ExitCode is ExitSuccess when every step completed or was skipped,
		// ExitFailure otherwise.
		ExitCode types.ExitCode
		// Error is the *StepError of the failing step, nil on success.
		Error error
		// Ran lists the names of steps that executed, in order.
		Ran []string
		// Skipped lists the names of steps whose SkipIf condition was met.
		Skipped []string
	}

	// StepError identifies the step that stopped the run.
	StepError struct {
		Index int
		Name  string
		Err   error
	}

	nopObserver struct{}
)

// WithObserver registers an Observer for step events.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// NewRunner creates a Runner that launches command steps through l.
func NewRunner(l Launcher, opts ...RunnerOption) *Runner {
	r := &Runner{launcher: l, observer: nopObserver{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Name, e.Err)
}

// Unwrap returns the step's underlying failure.
func (e *StepError) Unwrap() error { return e.Err }

// Succeeded reports whether the run completed without a failing step.
func (r *Result) Succeeded() bool { return r.Error == nil }

// Run executes steps in order. Every step is validated before anything runs,
// so a malformed plan fails without side effects. Once ctx is done no further
// step starts and the run fails with the context's error.
func (r *Runner) Run(ctx context.Context, steps []Step) *Result {
	res := &Result{}
	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return res.fail(&StepError{Index: i, Name: step.Name, Err: err})
		}
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return res.fail(&StepError{Index: i, Name: step.Name, Err: err})
		}
		if step.SkipIf != nil {
			met, err := step.SkipIf.Met()
			if err != nil {
				return res.fail(&StepError{Index: i, Name: step.Name, Err: err})
			}
			if met {
				slog.Info("skipping step, marker exists", "step", step.Name, "marker", step.SkipIf.String())
				r.observer.StepSkipped(i, step)
				res.Skipped = append(res.Skipped, step.Name)
				continue
			}
		}

		slog.Info("running step", "step", step.Name)
		slog.Debug("step detail", "step", step.Name, "run", step.Describe())
		r.observer.StepStarted(i, step)
		start := time.Now()

		if err := r.runStep(ctx, step); err != nil {
			return res.fail(&StepError{Index: i, Name: step.Name, Err: err})
		}

		r.observer.StepFinished(i, step, time.Since(start))
		res.Ran = append(res.Ran, step.Name)
	}

	return res
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	if step.Action != nil {
		return step.Action(ctx)
	}
	if r.launcher == nil {
		return ErrNoLauncher
	}
	return r.launcher.Launch(ctx, step.Command)
}

func (res *Result) fail(err *StepError) *Result {
	res.ExitCode = types.ExitFailure
	res.Error = err
	return res
}

func (nopObserver) StepStarted(int, Step)                 {}
func (nopObserver) StepSkipped(int, Step)                 {}
func (nopObserver) StepFinished(int, Step, time.Duration) {}
