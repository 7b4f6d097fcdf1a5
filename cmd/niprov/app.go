// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/launch"
	"github.com/niprov/niprov/internal/pipeline"
)

type (
	// LauncherFactory builds the launcher a run's steps go through. It receives
	// the validated configuration so the shell kind can be honored.
	LauncherFactory func(cfg *config.Config, streams launch.IO) (pipeline.Launcher, error)

	// App wires CLI services and shared dependencies. Command handlers reach
	// configuration, the environment and child processes through it.
	App struct {
		Config    config.Provider
		Launchers LauncherFactory
		Getwd     func() (string, error)
		LookupEnv func(string) (string, bool)
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
		flags     rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		Launchers LauncherFactory
		Getwd     func() (string, error)
		LookupEnv func(string) (string, bool)
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// rootFlags are the persistent flags shared by every subcommand.
	rootFlags struct {
		verbose    bool
		configPath string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Launchers == nil {
		deps.Launchers = defaultLaunchers
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}

	return &App{
		Config:    deps.Config,
		Launchers: deps.Launchers,
		Getwd:     deps.Getwd,
		LookupEnv: deps.LookupEnv,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// streams returns the IO handed to child processes.
func (a *App) streams() launch.IO {
	return launch.IO{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
}

func defaultLaunchers(cfg *config.Config, streams launch.IO) (pipeline.Launcher, error) {
	d, err := launch.NewDispatcher(cfg.Shell, cfg.HostShell, streams)
	if err != nil {
		return nil, err
	}
	return d, nil
}
