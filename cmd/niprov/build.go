// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/niprov/niprov/internal/checksum"
	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/issue"
	"github.com/niprov/niprov/internal/launch"
	"github.com/niprov/niprov/internal/pipeline"
	"github.com/niprov/niprov/internal/plan"

	"github.com/spf13/cobra"
)

type (
	// buildOptions are the flags shared by the root command, build and plan.
	// Empty values leave the configuration untouched.
	buildOptions struct {
		mode      string
		input     string
		output    string
		workspace string
		dryRun    bool
	}

	// buildRequest is a fully resolved run: configuration, mode and steps.
	buildRequest struct {
		cfg        *config.Config
		configPath string
		mode       config.Mode
		inputs     plan.Inputs
		steps      []pipeline.Step
	}

	// progressObserver prints one line per step event.
	progressObserver struct {
		w     io.Writer
		total int
	}
)

func newBuildCommand(app *App) *cobra.Command {
	opts := &buildOptions{}
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Provision the toolchain and compile the jar",
		Long: `Provision the toolchain and compile the jar into a native executable.

Each step is skipped when the file or directory it produces already exists in
the workspace. The run stops at the first failing step; nothing is cleaned up,
so the next run resumes after the last completed step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, opts)
		},
	}
	opts.addFlags(buildCmd)
	return buildCmd
}

// addFlags registers the build flags on c, including --dry-run.
func (o *buildOptions) addFlags(c *cobra.Command) {
	o.addPlanFlags(c)
	c.Flags().BoolVar(&o.dryRun, "dry-run", false, "print the steps without running them")
}

// addPlanFlags registers the flags that shape the plan.
func (o *buildOptions) addPlanFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&o.mode, "mode", string(config.SelectAuto), "build mode: auto (from "+config.NightlyEnvVar+"), release or nightly")
	f.StringVar(&o.input, "input", "", "jar to compile, relative to the working directory (default from config: "+config.DefaultInput+")")
	f.StringVar(&o.output, "output", "", "name of the native executable (default from config: "+config.DefaultOutput+")")
	f.StringVar(&o.workspace, "workspace", "", "toolchain workspace (default $TMPDIR/"+config.DefaultWorkspaceName+")")
}

// apply overlays the non-empty flag values on cfg.
func (o *buildOptions) apply(cfg *config.Config) {
	if o.input != "" {
		cfg.Input = o.input
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.workspace != "" {
		cfg.Workspace = o.workspace
	}
}

func runBuild(ctx context.Context, app *App, opts *buildOptions) error {
	req, err := resolveBuild(ctx, app, opts)
	if err != nil {
		return err
	}
	if opts.dryRun {
		renderPlan(app.stdout, req)
		return nil
	}

	if err := checkInput(req.inputs.InputPath()); err != nil {
		return err
	}

	launcher, err := app.Launchers(req.cfg, app.streams())
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("prepare command launcher").
			WithSuggestion("Check the 'shell' and 'host_shell' configuration values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	slog.Info("starting build",
		"mode", req.mode.String(),
		"workspace", req.inputs.Layout.Workspace,
		"target", req.cfg.Target().String())

	runner := pipeline.NewRunner(launcher, pipeline.WithObserver(&progressObserver{w: app.stderr, total: len(req.steps)}))
	res := runner.Run(ctx, req.steps)
	if !res.Succeeded() {
		return &ExitError{Code: res.ExitCode, Err: classifyFailure(req.steps, res.Error)}
	}

	out := filepath.Join(req.inputs.WorkDir, req.inputs.Output)
	fmt.Fprintf(app.stderr, "%s Built %s %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(out),
		SubtitleStyle.Render(fmt.Sprintf("(%d ran, %d skipped)", len(res.Ran), len(res.Skipped))))
	return nil
}

// resolveBuild loads configuration, applies flag overrides, resolves the mode
// and builds the step plan. Nothing on disk is changed.
func resolveBuild(ctx context.Context, app *App, opts *buildOptions) (*buildRequest, error) {
	cwd, err := app.Getwd()
	if err != nil {
		return nil, issue.WrapWithOperation(err, "determine working directory")
	}

	loaded, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: app.flags.configPath,
		WorkDir:        cwd,
	})
	if err != nil {
		return nil, err
	}

	cfg := loaded.Config
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate build options").
			WithSuggestion("Check the --input, --output and --workspace flags").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	mode, err := config.ModeSelection(opts.mode).Resolve(app.LookupEnv)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select build mode").
			WithSuggestion("Unset "+config.NightlyEnvVar+" for a release build, or set it to 'true' for a source build").
			WithSuggestion("Pass --mode release or --mode nightly to ignore the environment").
			WithIssue(issue.InvalidModeId).
			Wrap(err).
			BuildError()
	}

	inputs, err := plan.NewInputs(cfg, cwd)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve toolchain inputs").
			WithResource(loaded.Path).
			WithSuggestion("Check the 'pins' and 'checksums' configuration values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	steps, err := plan.Build(mode, inputs)
	if errors.Is(err, plan.ErrInvalidInputs) {
		return nil, issue.NewErrorContext().
			WithOperation("build the step plan").
			WithSuggestion("Release builds pass paths to native-image without a shell; keep quote characters out of the workspace and working directory").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	if err != nil {
		return nil, issue.WrapWithOperation(err, "build the step plan")
	}

	return &buildRequest{
		cfg:        cfg,
		configPath: loaded.Path,
		mode:       mode,
		inputs:     inputs,
		steps:      steps,
	}, nil
}

// checkInput fails before any step runs when the jar is missing.
func checkInput(path string) error {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return nil
	}
	if err == nil {
		err = fmt.Errorf("%s is a directory", path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("input artifact not found: %w", err)
	}
	return issue.NewErrorContext().
		WithOperation("find input artifact").
		WithResource(path).
		WithSuggestion("Build the jar first, or point --input at it").
		WithIssue(issue.InputArtifactMissingId).
		Wrap(err).
		BuildError()
}

// classifyFailure turns a failed run into an actionable error whose guide
// matches the failure category.
func classifyFailure(steps []pipeline.Step, err error) error {
	ec := issue.NewErrorContext().Wrap(err)

	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) {
		ec.WithOperation("run step " + stepErr.Name)
		if stepErr.Index >= 0 && stepErr.Index < len(steps) {
			ec.WithResource(steps[stepErr.Index].Describe())
		}
	} else {
		ec.WithOperation("run build")
	}

	var launchErr *launch.LaunchError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		ec.WithSuggestion("The run was interrupted; completed steps are kept and skipped next time")
	case errors.As(err, &launchErr):
		ec.WithIssue(issue.ToolNotFoundId).
			WithSuggestion(fmt.Sprintf("Install '%s' or add it to PATH", launchErr.Program))
	case errors.Is(err, checksum.ErrChecksumMismatch):
		ec.WithIssue(issue.ChecksumMismatchId).
			WithSuggestion("Run 'niprov clean' to remove the archive, then build again").
			WithSuggestion("Update the pinned digest if the release was republished")
	default:
		ec.WithIssue(issue.StepFailedId).
			WithSuggestion("Scroll up for the failing program's output").
			WithSuggestion("Run again with --verbose to log each command line")
	}
	return ec.BuildError()
}

// StepStarted implements pipeline.Observer.
func (p *progressObserver) StepStarted(index int, step pipeline.Step) {
	fmt.Fprintf(p.w, "%s %s\n", TitleStyle.Render(p.counter(index)), step.Name)
}

// StepSkipped implements pipeline.Observer.
func (p *progressObserver) StepSkipped(index int, step pipeline.Step) {
	fmt.Fprintf(p.w, "%s %s %s\n", SubtitleStyle.Render(p.counter(index)), step.Name,
		SubtitleStyle.Render("(skipped, "+step.SkipIf.String()+" exists)"))
}

// StepFinished implements pipeline.Observer.
func (p *progressObserver) StepFinished(_ int, step pipeline.Step, elapsed time.Duration) {
	fmt.Fprintf(p.w, "  %s %s %s\n", SuccessStyle.Render("✓"), step.Name,
		SubtitleStyle.Render(elapsed.Round(time.Millisecond).String()))
}

func (p *progressObserver) counter(index int) string {
	return fmt.Sprintf("[%d/%d]", index+1, p.total)
}
