// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/niprov/niprov/internal/checksum"
	"github.com/niprov/niprov/internal/launch"
	"github.com/niprov/niprov/internal/toolchain"
	"github.com/niprov/niprov/pkg/platform"
)

// Defaults for the native-image invocation.
const (
	DefaultInput            = "app.jar"
	DefaultOutput           = "app"
	DefaultReflectionConfig = "reflection.json"
	// DefaultWorkspaceName is joined to os.TempDir() when no workspace is set.
	DefaultWorkspaceName = "niprov"
)

// DefaultResourcePatterns are the -H:IncludeResources patterns bundled into
// every image.
var DefaultResourcePatterns = []string{`.*\.properties$`, `.*\.json$`, `META-INF/services/.*`}

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnsupportedPlatform is returned for platforms without a toolchain build.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrInvalidFileName is returned for input/output names that are blank.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInvalidResourcePattern is returned for patterns that do not compile.
	ErrInvalidResourcePattern = errors.New("invalid resource pattern")
)

type (
	// Config holds the application configuration.
	Config struct {
		// Workspace holds downloads, sources and build output. Empty means
		// $TMPDIR/niprov; relative paths are taken from the working directory.
		Workspace string `json:"workspace" mapstructure:"workspace" toml:"workspace"`
		// Platform overrides the host GOOS ("linux", "darwin").
		Platform string `json:"platform" mapstructure:"platform" toml:"platform"`
		// Arch overrides the host GOARCH; uname spellings are accepted.
		Arch string `json:"arch" mapstructure:"arch" toml:"arch"`
		// Shell selects the interpreter for shell-launched steps.
		Shell launch.ShellKind `json:"shell" mapstructure:"shell" toml:"shell"`
		// HostShell is the interpreter used when Shell is "host".
		HostShell string `json:"host_shell" mapstructure:"host_shell" toml:"host_shell"`
		// Input is the jar compiled by native-image, relative to the working directory.
		Input string `json:"input" mapstructure:"input" toml:"input"`
		// Output is the image name passed as -H:Name and copied back.
		Output string `json:"output" mapstructure:"output" toml:"output"`
		// ReflectionConfig is passed as -H:ReflectionConfigurationFiles.
		ReflectionConfig string `json:"reflection_config" mapstructure:"reflection_config" toml:"reflection_config"`
		// ResourcePatterns are joined with '|' into -H:IncludeResources.
		ResourcePatterns []string `json:"resource_patterns" mapstructure:"resource_patterns" toml:"resource_patterns"`
		// Pins are the toolchain versions and download locations.
		Pins toolchain.Pins `json:"pins" mapstructure:"pins" toml:"pins"`
		// Checksums are optional SHA-256 pins for downloaded archives.
		Checksums Checksums `json:"checksums" mapstructure:"checksums" toml:"checksums"`
	}

	// Checksums pins downloaded archives. Empty fields disable verification.
	Checksums struct {
		// Toolchain is the digest of the prebuilt toolchain archive.
		Toolchain string `json:"toolchain" mapstructure:"toolchain" toml:"toolchain"`
		// JDK is the digest of the JVMCI-enabled JDK archive.
		JDK string `json:"jdk" mapstructure:"jdk" toml:"jdk"`
		// File is a sha256sum-format file keyed by archive name.
		File string `json:"file" mapstructure:"file" toml:"file"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Shell:            launch.ShellHost,
		HostShell:        launch.DefaultShell,
		Input:            DefaultInput,
		Output:           DefaultOutput,
		ReflectionConfig: DefaultReflectionConfig,
		ResourcePatterns: append([]string(nil), DefaultResourcePatterns...),
		Pins:             toolchain.DefaultPins(),
	}
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the category and each field's sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Target returns the platform the toolchain is provisioned for, defaulting to
// the host.
func (c *Config) Target() toolchain.Target {
	goos := c.Platform
	if goos == "" {
		goos = runtime.GOOS
	}
	arch := c.Arch
	if arch == "" {
		arch = runtime.GOARCH
	}
	return toolchain.Target{OS: strings.ToLower(goos), Arch: platform.Arch(arch)}
}

// WorkspaceDir returns the absolute workspace path for a run started in cwd.
func (c *Config) WorkspaceDir(cwd string) string {
	switch {
	case c.Workspace == "":
		return filepath.Join(os.TempDir(), DefaultWorkspaceName)
	case filepath.IsAbs(c.Workspace):
		return filepath.Clean(c.Workspace)
	default:
		return filepath.Join(cwd, c.Workspace)
	}
}

// IsValid returns whether the Config has valid fields, collecting every
// field error into a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error

	switch goos := c.Target().OS; goos {
	case platform.Linux, platform.Darwin:
	default:
		errs = append(errs, fmt.Errorf("platform: %w %q (valid: linux, darwin)", ErrUnsupportedPlatform, goos))
	}
	if err := c.Shell.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("shell: %w", err))
	}
	if c.Shell == launch.ShellHost && strings.TrimSpace(c.HostShell) == "" {
		errs = append(errs, fmt.Errorf("host_shell: %w: must be set when shell is host", ErrInvalidFileName))
	}
	for _, f := range []struct{ key, value string }{
		{"input", c.Input},
		{"output", c.Output},
		{"reflection_config", c.ReflectionConfig},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s: %w: must not be empty", f.key, ErrInvalidFileName))
		}
	}
	if strings.ContainsAny(c.Output, `/\`) {
		errs = append(errs, fmt.Errorf("output: %w: %q must be a bare file name", ErrInvalidFileName, c.Output))
	}
	if len(c.ResourcePatterns) == 0 {
		errs = append(errs, fmt.Errorf("resource_patterns: %w: at least one pattern is required", ErrInvalidResourcePattern))
	}
	for i, p := range c.ResourcePatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("resource_patterns[%d]: %w: %w", i, ErrInvalidResourcePattern, err))
		}
	}
	if err := c.Pins.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pins: %w", err))
	}
	for _, f := range []struct{ key, value string }{
		{"checksums.toolchain", c.Checksums.Toolchain},
		{"checksums.jdk", c.Checksums.JDK},
	} {
		if f.value != "" && !checksum.IsValidHexHash(f.value) {
			errs = append(errs, fmt.Errorf("%s: %w", f.key, checksum.ErrInvalidDigest))
		}
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Validate is IsValid collapsed into a single error.
func (c Config) Validate() error {
	if ok, errs := c.IsValid(); !ok {
		return errs[0]
	}
	return nil
}
