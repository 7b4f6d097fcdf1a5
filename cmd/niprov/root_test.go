// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/niprov/niprov/internal/issue"
	"github.com/niprov/niprov/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"exit error", &ExitError{Code: 3}, 3},
		{"wrapped exit error", fmt.Errorf("run: %w", &ExitError{Code: types.ExitLaunchFailure}), types.ExitLaunchFailure},
		{"exit error carrying success", &ExitError{Code: types.ExitSuccess}, types.ExitFailure},
		{"exit error out of range", &ExitError{Code: 300}, types.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("tar failed")
	err := &ExitError{Code: types.ExitFailure, Err: cause}
	if err.Error() != "tar failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() without cause = %q", got)
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("find input artifact").
		WithResource("/work/app.jar").
		WithSuggestion("Build the jar first").
		WithIssue(issue.InputArtifactMissingId).
		Wrap(errors.New("no such file")).
		Build()

	var buf bytes.Buffer
	renderError(&buf, ae, false)
	out := buf.String()

	for _, want := range []string{
		"Error:",
		"failed to find input artifact: /work/app.jar: no such file",
		"Build the jar first",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// The guide follows the error message.
	if len(strings.Split(strings.TrimSpace(out), "\n")) < 4 {
		t.Errorf("expected the issue guide after the message, got:\n%s", out)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	for _, name := range []string{"build", "plan", "clean", "config"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, c, err)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
	for _, flag := range []string{"mode", "input", "output", "workspace", "dry-run"} {
		if rootCmd.Flags().Lookup(flag) == nil {
			t.Errorf("root command missing build flag --%s", flag)
		}
	}
}
