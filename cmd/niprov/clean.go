// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/issue"

	"github.com/spf13/cobra"
)

// ErrUnsafeWorkspace is returned when the workspace resolves to a directory
// clean must never remove.
var ErrUnsafeWorkspace = errors.New("refusing to remove workspace")

func newCleanCommand(app *App) *cobra.Command {
	var workspace string
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the toolchain workspace",
		Long: `Remove the toolchain workspace.

Every download, checkout and build output lives in the workspace, and its
presence is what makes steps skip. After 'clean' the next build starts over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), app, workspace)
		},
	}
	cleanCmd.Flags().StringVar(&workspace, "workspace", "", "toolchain workspace (default $TMPDIR/"+config.DefaultWorkspaceName+")")
	return cleanCmd
}

func runClean(ctx context.Context, app *App, workspace string) error {
	cwd, err := app.Getwd()
	if err != nil {
		return issue.WrapWithOperation(err, "determine working directory")
	}
	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.flags.configPath, WorkDir: cwd})
	if err != nil {
		return err
	}
	if workspace != "" {
		loaded.Config.Workspace = workspace
	}
	ws := loaded.Config.WorkspaceDir(cwd)

	home, _ := os.UserHomeDir()
	if err := checkRemovable(ws, cwd, home); err != nil {
		return issue.NewErrorContext().
			WithOperation("clean workspace").
			WithResource(ws).
			WithSuggestion("Point 'workspace' (or --workspace) at a dedicated directory").
			Wrap(err).
			BuildError()
	}

	if _, err := os.Stat(ws); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Nothing to clean at"), ws)
		return nil
	}
	if err := os.RemoveAll(ws); err != nil {
		return issue.NewErrorContext().
			WithOperation("clean workspace").
			WithResource(ws).
			Wrap(err).
			BuildError()
	}
	fmt.Fprintf(app.stdout, "%s Removed %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(ws))
	return nil
}

// checkRemovable rejects directories whose removal would take user data with
// it. cwd must not be inside ws.
func checkRemovable(ws, cwd, home string) error {
	ws = filepath.Clean(ws)
	if ws == filepath.Dir(ws) {
		return fmt.Errorf("%w: %s is a filesystem root", ErrUnsafeWorkspace, ws)
	}
	if home != "" && ws == filepath.Clean(home) {
		return fmt.Errorf("%w: %s is the home directory", ErrUnsafeWorkspace, ws)
	}
	if cwd != "" {
		rel, err := filepath.Rel(ws, filepath.Clean(cwd))
		if err == nil && (rel == "." || !strings.HasPrefix(rel, "..")) {
			return fmt.Errorf("%w: %s contains the working directory", ErrUnsafeWorkspace, ws)
		}
	}
	return nil
}
