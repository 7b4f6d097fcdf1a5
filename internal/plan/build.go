// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/niprov/niprov/internal/checksum"
	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/pipeline"
)

// Step names, stable across releases; they appear in logs and error messages.
const (
	StepEnsureWorkspace   = "ensure-workspace"
	StepDownloadToolchain = "download-toolchain"
	StepVerifyToolchain   = "verify-toolchain"
	StepExtractToolchain  = "extract-toolchain"
	StepCloneGraal        = "clone-graal"
	StepFetchGraal        = "fetch-graal"
	StepCheckoutGraal     = "checkout-graal"
	StepCloneMx           = "clone-mx"
	StepDownloadJDK       = "download-jdk"
	StepVerifyJDK         = "verify-jdk"
	StepExtractJDK        = "extract-jdk"
	StepBuildNativeImage  = "build-native-image"
	StepNativeImage       = "native-image"
	StepCopyOutput        = "copy-output"
)

// Build returns the steps for mode. Exactly one of the two plans is produced.
func Build(mode config.Mode, in Inputs) ([]pipeline.Step, error) {
	if ok, errs := mode.IsValid(); !ok {
		return nil, errs[0]
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if mode == config.ModeNightly {
		return nightly(in)
	}
	return release(in)
}

func release(in Inputs) ([]pipeline.Step, error) {
	l := in.Layout
	flags, err := NativeImageFlags(in)
	if err != nil {
		return nil, err
	}
	steps := []pipeline.Step{
		ensureWorkspace(in),
		download(StepDownloadToolchain, l.ReleaseURL, l.ReleaseArchive),
	}
	if v, ok := verify(StepVerifyToolchain, in.Checksums, l.ReleaseArchive, l.GraalHome); ok {
		steps = append(steps, v)
	}
	return append(steps,
		extract(StepExtractToolchain, l.ReleaseArchive, l.Workspace, l.GraalHome),
		pipeline.Step{
			Name: StepNativeImage,
			Command: &pipeline.Command{
				Path:        l.NativeImage,
				Args:        flags,
				Dir:         l.Workspace,
				Launch:      pipeline.LaunchDirect,
				StripQuotes: true,
			},
		},
		copyOutput(in),
	), nil
}

func nightly(in Inputs) ([]pipeline.Step, error) {
	l := in.Layout
	javaHome := map[string]string{"JAVA_HOME": l.JDKHome}

	steps := []pipeline.Step{
		ensureWorkspace(in),
		{
			Name:    StepCloneGraal,
			Command: direct("git", "clone", in.Pins.GraalRepo, l.GraalSource),
			SkipIf:  pipeline.Exists(l.GraalSource),
		},
		{
			Name:    StepFetchGraal,
			Command: direct("git", "-C", l.GraalSource, "fetch", "--tags", "origin"),
		},
		{
			Name:    StepCheckoutGraal,
			Command: direct("git", "-C", l.GraalSource, "checkout", in.Pins.GraalRevision),
		},
		{
			Name:    StepCloneMx,
			Command: direct("git", "clone", in.Pins.MxRepo, l.MxSource),
			SkipIf:  pipeline.Exists(l.MxSource),
		},
		download(StepDownloadJDK, l.JDKURL, l.JDKArchive),
	}
	if v, ok := verify(StepVerifyJDK, in.Checksums, l.JDKArchive, l.JDKHome); ok {
		steps = append(steps, v)
	}

	mx, err := shellQuote(l.Mx)
	if err != nil {
		return nil, fmt.Errorf("quoting %s: %w", l.Mx, err)
	}
	flags, err := nativeImageFlags(in, shellQuote)
	if err != nil {
		return nil, fmt.Errorf("quoting native-image flags: %w", err)
	}

	return append(steps,
		extract(StepExtractJDK, l.JDKArchive, l.Workspace, l.JDKHome),
		pipeline.Step{
			Name: StepBuildNativeImage,
			Command: &pipeline.Command{
				Path:   l.Mx,
				Args:   []string{"build"},
				Dir:    l.SubstrateVM,
				Env:    javaHome,
				Launch: pipeline.LaunchDirect,
			},
		},
		pipeline.Step{
			Name: StepNativeImage,
			Command: &pipeline.Command{
				Path:   mx,
				Args:   append([]string{"native-image"}, flags...),
				Dir:    l.SubstrateVM,
				Env:    javaHome,
				Launch: pipeline.LaunchShell,
			},
		},
		copyOutput(in),
	), nil
}

func direct(program string, args ...string) *pipeline.Command {
	return &pipeline.Command{Path: program, Args: args, Launch: pipeline.LaunchDirect}
}

func ensureWorkspace(in Inputs) pipeline.Step {
	return pipeline.Step{
		Name:    StepEnsureWorkspace,
		Command: direct("mkdir", "-p", in.Layout.Workspace),
	}
}

func download(name, url, archive string) pipeline.Step {
	return pipeline.Step{
		Name:    name,
		Command: direct("curl", "-fSL", "-o", archive, url),
		SkipIf:  pipeline.Exists(archive),
	}
}

// verify returns a checksum step for archive when sums pins it. It is skipped
// together with the extraction once home exists.
func verify(name string, sums checksum.Set, archive, home string) (pipeline.Step, bool) {
	digest, err := sums.Lookup(filepath.Base(archive))
	if err != nil {
		return pipeline.Step{}, false
	}
	return pipeline.Step{
		Name: name,
		Action: func(context.Context) error {
			return checksum.VerifyFile(archive, digest)
		},
		SkipIf: pipeline.Exists(home),
	}, true
}

func extract(name, archive, dest, home string) pipeline.Step {
	return pipeline.Step{
		Name:    name,
		Command: direct("tar", "-xzf", archive, "-C", dest),
		SkipIf:  pipeline.Exists(home),
	}
}

func copyOutput(in Inputs) pipeline.Step {
	return pipeline.Step{
		Name:    StepCopyOutput,
		Command: direct("cp", "-R", in.Layout.OutputBinary, in.WorkDir),
	}
}
