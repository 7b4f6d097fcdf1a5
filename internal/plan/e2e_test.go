// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/pipeline"
	"github.com/niprov/niprov/internal/testutil/launchtest"
	"github.com/niprov/niprov/pkg/types"
)

// releaseLines is the exact command sequence of a release build into an
// empty workspace.
func releaseLines(workDir, ws string) []string {
	archive := filepath.Join(ws, "graalvm-ce-1.0.0-rc16-linux-amd64.tar.gz")
	return []string{
		"mkdir -p " + ws,
		"curl -fSL -o " + archive + " https://github.com/oracle/graal/releases/download/vm-1.0.0-rc16/graalvm-ce-1.0.0-rc16-linux-amd64.tar.gz",
		"tar -xzf " + archive + " -C " + ws,
		filepath.Join(ws, "graalvm-ce-1.0.0-rc16", "bin", "native-image") +
			" --no-server -H:+JNI" +
			" -H:ReflectionConfigurationFiles=" + filepath.Join(workDir, "reflection.json") +
			` -H:IncludeResources='.*\.properties$|.*\.json$|META-INF/services/.*'` +
			" -H:Path=" + filepath.Join(ws, "out") +
			" -H:Name=app" +
			" -jar " + filepath.Join(workDir, "app.jar"),
		"cp -R " + filepath.Join(ws, "out", "app") + " " + workDir,
	}
}

func TestRelease_EndToEnd(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	ws := filepath.Join(t.TempDir(), "ws")
	in := newInputs(t, workDir, ws, linux)

	steps, err := Build(config.ModeRelease, in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rec := launchtest.New()
	res := pipeline.NewRunner(rec).Run(context.Background(), steps)
	if !res.Succeeded() || res.ExitCode != types.ExitSuccess {
		t.Fatalf("Run() = %+v", res)
	}
	if diff := cmp.Diff(releaseLines(workDir, ws), rec.Lines()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestRelease_SecondRunSkipsProvisionedSteps(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	ws := filepath.Join(t.TempDir(), "ws")
	in := newInputs(t, workDir, ws, linux)
	steps, err := Build(config.ModeRelease, in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// The recorder leaves behind what curl and tar would have produced.
	effects := []launchtest.Option{
		launchtest.On("curl ", launchtest.Touch(in.Layout.ReleaseArchive)),
		launchtest.On("tar ", launchtest.Touch(in.Layout.GraalHome+string(filepath.Separator))),
	}

	first := launchtest.New(effects...)
	if res := pipeline.NewRunner(first).Run(context.Background(), steps); !res.Succeeded() {
		t.Fatalf("first Run() = %+v", res)
	}

	second := launchtest.New(effects...)
	res := pipeline.NewRunner(second).Run(context.Background(), steps)
	if !res.Succeeded() {
		t.Fatalf("second Run() = %+v", res)
	}
	if diff := cmp.Diff([]string{"mkdir", "native-image", "cp"}, second.Programs()); diff != "" {
		t.Errorf("second run programs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{StepDownloadToolchain, StepExtractToolchain}, res.Skipped); diff != "" {
		t.Errorf("skipped steps mismatch (-want +got):\n%s", diff)
	}
}

func TestRelease_FailureStopsPipeline(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	ws := filepath.Join(t.TempDir(), "ws")
	steps, err := Build(config.ModeRelease, newInputs(t, workDir, ws, linux))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	errExtract := errors.New("tar: unexpected EOF")
	rec := launchtest.New(launchtest.FailOn("tar ", errExtract))
	res := pipeline.NewRunner(rec).Run(context.Background(), steps)

	if res.ExitCode != types.ExitFailure {
		t.Errorf("ExitCode = %v, want 1", res.ExitCode)
	}
	var stepErr *pipeline.StepError
	if !errors.As(res.Error, &stepErr) || stepErr.Name != StepExtractToolchain || !errors.Is(res.Error, errExtract) {
		t.Errorf("Error = %v, want extract-toolchain failure", res.Error)
	}
	if diff := cmp.Diff(releaseLines(workDir, ws)[:3], rec.Lines()); diff != "" {
		t.Errorf("commands after failure mismatch (-want +got):\n%s", diff)
	}
}

func TestNightly_EndToEndOrder(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	ws := filepath.Join(t.TempDir(), "ws")
	steps, err := Build(config.ModeNightly, newInputs(t, workDir, ws, linux))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	rec := launchtest.New()
	if res := pipeline.NewRunner(rec).Run(context.Background(), steps); !res.Succeeded() {
		t.Fatalf("Run() = %+v", res)
	}

	want := []string{"mkdir", "git", "git", "git", "git", "curl", "tar", "mx", "mx", "cp"}
	if diff := cmp.Diff(want, rec.Programs()); diff != "" {
		t.Errorf("programs mismatch (-want +got):\n%s", diff)
	}
	if got := rec.Commands[8].Launch; got != pipeline.LaunchShell {
		t.Errorf("mx native-image launch = %q, want shell", got)
	}
}
