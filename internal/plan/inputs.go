// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/niprov/niprov/internal/checksum"
	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/toolchain"
)

// ErrInvalidInputs is the sentinel error wrapped by InvalidInputsError.
var ErrInvalidInputs = errors.New("invalid plan inputs")

type (
	// Inputs are the values a plan is built from.
	Inputs struct {
		// WorkDir is the invocation directory holding the input artifact and
		// receiving the output. Must be absolute.
		WorkDir string
		// Layout holds the workspace paths.
		Layout *toolchain.Layout
		// Pins supply repository URLs and revisions for source builds.
		Pins toolchain.Pins
		// Input is the jar name, relative to WorkDir.
		Input string
		// Output is the image name.
		Output string
		// ReflectionConfig is the reflection configuration file; relative
		// paths are taken from WorkDir.
		ReflectionConfig string
		// ResourcePatterns are joined with '|' for -H:IncludeResources.
		ResourcePatterns []string
		// Checksums, when they hold a digest for a downloaded archive, add a
		// verification step after its download.
		Checksums checksum.Set
	}

	// InvalidInputsError lists the problems found in Inputs.
	InvalidInputsError struct {
		Problems []string
	}
)

// Error implements the error interface.
func (e *InvalidInputsError) Error() string {
	return fmt.Sprintf("invalid plan inputs: %s", strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrInvalidInputs for errors.Is() compatibility.
func (e *InvalidInputsError) Unwrap() error { return ErrInvalidInputs }

// NewInputs resolves cfg for a run started in workDir.
func NewInputs(cfg *config.Config, workDir string) (Inputs, error) {
	target := cfg.Target()
	layout, err := toolchain.NewLayout(cfg.WorkspaceDir(workDir), target, cfg.Pins, cfg.Output)
	if err != nil {
		return Inputs{}, err
	}
	sums, err := cfg.ChecksumSet(workDir, target)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{
		WorkDir:          workDir,
		Layout:           layout,
		Pins:             cfg.Pins,
		Input:            cfg.Input,
		Output:           cfg.Output,
		ReflectionConfig: cfg.ReflectionConfig,
		ResourcePatterns: cfg.ResourcePatterns,
		Checksums:        sums,
	}, nil
}

// InputPath is the absolute path of the jar native-image compiles.
func (in Inputs) InputPath() string {
	return in.resolve(in.Input)
}

// ReflectionConfigPath is the absolute path of the reflection configuration.
func (in Inputs) ReflectionConfigPath() string {
	return in.resolve(in.ReflectionConfig)
}

func (in Inputs) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(in.WorkDir, p)
}

func (in Inputs) validate() error {
	var problems []string
	if in.Layout == nil {
		problems = append(problems, "layout is required")
	}
	if !filepath.IsAbs(in.WorkDir) {
		problems = append(problems, fmt.Sprintf("working directory %q is not absolute", in.WorkDir))
	}
	for _, f := range []struct{ name, value string }{
		{"input", in.Input},
		{"output", in.Output},
		{"reflection config", in.ReflectionConfig},
	} {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is empty")
		}
	}
	if len(in.ResourcePatterns) == 0 {
		problems = append(problems, "no resource patterns")
	}
	if len(problems) > 0 {
		return &InvalidInputsError{Problems: problems}
	}
	return nil
}
