// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/niprov/niprov/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree. Running the root command without a
// subcommand performs a build.
func NewRootCommand(app *App) *cobra.Command {
	bopts := &buildOptions{}
	rootCmd := &cobra.Command{
		Use:   "niprov",
		Short: "Provision a GraalVM native-image toolchain and compile a jar",
		Long: TitleStyle.Render("niprov") + SubtitleStyle.Render(" - native-image toolchain provisioning") + `

niprov downloads a prebuilt GraalVM release (or, in nightly mode, builds
native-image from source), compiles the jar in the current directory into a
native executable and copies the result back.

Steps whose output already exists in the workspace are skipped, so a second
run only repeats the compilation.

` + SubtitleStyle.Render("Modes:") + `
  NIPROV_NIGHTLY unset, or false     release toolchain
  NIPROV_NIGHTLY empty, or true      build from source

` + SubtitleStyle.Render("Examples:") + `
  niprov                      Build ./app.jar into ./app
  niprov build --dry-run      Show the steps without running them
  niprov plan --mode nightly  Show the source-build steps
  niprov clean                Remove the workspace
  niprov config show          Show the effective configuration`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(app.stderr, app.flags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, bopts)
		},
	}
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is ./niprov.cue, then the user config.cue)")
	bopts.addFlags(rootCmd)

	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newPlanCommand(app))
	rootCmd.AddCommand(newCleanCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree once and exits non-zero on failure. It is
// called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := run(context.Background(), app, NewRootCommand(app)); err != nil {
		os.Exit(int(exitCode(err)))
	}
}

// run executes rootCmd through fang. The returned error has already been
// printed by the error handler.
func run(ctx context.Context, app *App, rootCmd *cobra.Command) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				fang.DefaultErrorHandler(w, styles, err)
				return
			}
			renderError(w, ae, app.flags.verbose)
		}),
	)
}

// renderError prints an actionable error and, when one is attached, its
// markdown guide. Guides are rendered without color when w is not a terminal.
func renderError(w io.Writer, ae *issue.ActionableError, verbose bool) {
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+ae.Format(verbose))

	guide := issue.Get(ae.Issue)
	if guide == nil {
		return
	}
	style := "notty"
	if isTerminal(w) {
		style = "dark"
	}
	rendered, err := guide.Render(style)
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}
