// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/niprov/niprov/internal/pipeline"

	"github.com/spf13/cobra"
)

func newPlanCommand(app *App) *cobra.Command {
	opts := &buildOptions{dryRun: true}
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the build steps without running them",
		Long: `Show the build steps without running them.

Steps whose marker already exists are flagged as skipped. The command lines
are printed literally, as they would be launched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, opts)
		},
	}
	opts.addPlanFlags(planCmd)
	return planCmd
}

// renderPlan prints the resolved run without executing it.
func renderPlan(w io.Writer, req *buildRequest) {
	fmt.Fprintln(w, TitleStyle.Render("Plan"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Mode:"), req.mode)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Target:"), req.cfg.Target())
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Workspace:"), req.inputs.Layout.Workspace)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Input:"), req.inputs.InputPath())
	if req.configPath != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Config:"), req.configPath)
	} else {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Config:"), SubtitleStyle.Render("(defaults)"))
	}
	fmt.Fprintln(w)

	for i, step := range req.steps {
		fmt.Fprintf(w, "  %d. %s%s\n", i+1, step.Name, skipNote(step))
		fmt.Fprintf(w, "     %s\n", CmdStyle.Render(step.Describe()))
	}
	fmt.Fprintln(w)
}

// skipNote describes a step's idempotency marker as of now. Markers created by
// earlier steps of a real run are not predicted.
func skipNote(step pipeline.Step) string {
	if step.SkipIf == nil {
		return ""
	}
	met, err := step.SkipIf.Met()
	switch {
	case err != nil:
		return " " + WarningStyle.Render("(marker unreadable: "+err.Error()+")")
	case met:
		return " " + SubtitleStyle.Render("(skip: "+step.SkipIf.String()+" exists)")
	default:
		return " " + SubtitleStyle.Render("(unless "+step.SkipIf.String()+" exists)")
	}
}
