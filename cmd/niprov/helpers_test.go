// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/launch"
	"github.com/niprov/niprov/internal/pipeline"
	"github.com/niprov/niprov/internal/testutil/launchtest"
	"github.com/niprov/niprov/internal/toolchain"
)

type (
	// staticProvider hands out a copy of a fixed configuration so tests never
	// read the user's config file or NIPROV_* variables.
	staticProvider struct {
		cfg  *config.Config
		path string
		err  error
	}

	// harness runs the command tree against a temp working directory and
	// workspace with every child process recorded instead of started.
	harness struct {
		app     *App
		cfg     *config.Config
		layout  *toolchain.Layout
		rec     *launchtest.Recorder
		env     map[string]string
		stdout  bytes.Buffer
		stderr  bytes.Buffer
		workDir string
		ws      string
	}
)

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Loaded, error) {
	if p.err != nil {
		return nil, p.err
	}
	c := *p.cfg
	c.ResourcePatterns = slices.Clone(p.cfg.ResourcePatterns)
	return &config.Loaded{Config: &c, Path: p.path}, nil
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		cfg:     config.DefaultConfig(),
		env:     map[string]string{},
		rec:     launchtest.New(),
		workDir: t.TempDir(),
		ws:      filepath.Join(t.TempDir(), "ws"),
	}
	h.cfg.Workspace = h.ws
	h.cfg.Platform = "linux"
	h.cfg.Arch = "amd64"

	layout, err := toolchain.NewLayout(h.ws, h.cfg.Target(), h.cfg.Pins, h.cfg.Output)
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	h.layout = layout

	h.app = NewApp(Dependencies{
		Config: staticProvider{cfg: h.cfg},
		Launchers: func(*config.Config, launch.IO) (pipeline.Launcher, error) {
			return h.rec, nil
		},
		Getwd: func() (string, error) { return h.workDir, nil },
		LookupEnv: func(key string) (string, bool) {
			v, ok := h.env[key]
			return v, ok
		},
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	return h
}

// record replaces the recorder with one applying opts.
func (h *harness) record(opts ...launchtest.Option) {
	h.rec = launchtest.New(opts...)
}

func (h *harness) run(args ...string) error {
	rootCmd := NewRootCommand(h.app)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}
