// SPDX-License-Identifier: MPL-2.0

package launchtest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/niprov/niprov/internal/pipeline"
)

type (
	// Recorder is a pipeline.Launcher that records every command it is given.
	// Rules match on a substring of Command.String() and run in registration order.
	Recorder struct {
		Commands []pipeline.Command
		rules    []rule
	}

	// Option configures a Recorder.
	Option func(*Recorder)

	// Effect is run when a rule matches. A non-nil error fails the launch.
	Effect func(cmd *pipeline.Command) error

	rule struct {
		match  string
		effect Effect
	}
)

// New returns a Recorder with the given rules.
func New(opts ...Option) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FailOn makes every command whose rendering contains match fail with err.
func FailOn(match string, err error) Option {
	return On(match, func(*pipeline.Command) error { return err })
}

// On registers effect for commands whose rendering contains match.
func On(match string, effect Effect) Option {
	return func(r *Recorder) {
		r.rules = append(r.rules, rule{match: match, effect: effect})
	}
}

// Touch returns an Effect that creates each path as an empty file, or as a
// directory when the path ends with a separator.
func Touch(paths ...string) Effect {
	return func(*pipeline.Command) error {
		for _, p := range paths {
			if strings.HasSuffix(p, string(filepath.Separator)) {
				if err := os.MkdirAll(p, 0o755); err != nil {
					return err
				}
				continue
			}
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(p, nil, 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

// Launch implements pipeline.Launcher.
func (r *Recorder) Launch(_ context.Context, cmd *pipeline.Command) error {
	r.Commands = append(r.Commands, *cmd)
	line := cmd.String()
	for _, rl := range r.rules {
		if !strings.Contains(line, rl.match) {
			continue
		}
		if err := rl.effect(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Lines returns the rendering of every recorded command in launch order.
func (r *Recorder) Lines() []string {
	lines := make([]string, 0, len(r.Commands))
	for i := range r.Commands {
		lines = append(lines, r.Commands[i].String())
	}
	return lines
}

// Programs returns the base name of every recorded program in launch order.
func (r *Recorder) Programs() []string {
	progs := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		progs = append(progs, filepath.Base(c.Path))
	}
	return progs
}
