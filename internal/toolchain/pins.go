// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/niprov/niprov/pkg/platform"

	"golang.org/x/mod/semver"
)

// Default pins. The release and source revisions move together.
const (
	DefaultGraalVersion    = "1.0.0-rc16"
	DefaultGraalReleaseURL = "https://github.com/oracle/graal/releases/download/vm-{{.Version}}/graalvm-ce-{{.Version}}-{{.Platform}}-{{.Arch}}.tar.gz"
	DefaultGraalRepo       = "https://github.com/oracle/graal.git"
	DefaultGraalRevision   = "vm-1.0.0-rc16"
	DefaultMxRepo          = "https://github.com/graalvm/mx.git"
	DefaultJVMCIVersion    = "jvmci-0.58"
	DefaultJDKVersion      = "8u212"
	DefaultJVMCIURL        = "https://github.com/graalvm/openjdk8-jvmci-builder/releases/download/{{.JVMCI}}/openjdk-{{.JDK}}-{{.JVMCI}}-{{.Platform}}-{{.Arch}}.tar.gz"
)

var (
	// ErrInvalidPins is the sentinel error wrapped by InvalidPinsError.
	ErrInvalidPins = errors.New("invalid toolchain pins")
	// ErrInvalidJDKVersion is returned for JDK versions not shaped like "8u212".
	ErrInvalidJDKVersion = errors.New("invalid JDK version")
)

type (
	// Pins holds every version-pinned identifier the plans use.
	Pins struct {
		GraalVersion    string `json:"graal_version" mapstructure:"graal_version" toml:"graal_version"`
		GraalReleaseURL string `json:"graal_release_url" mapstructure:"graal_release_url" toml:"graal_release_url"`
		GraalRepo       string `json:"graal_repo" mapstructure:"graal_repo" toml:"graal_repo"`
		GraalRevision   string `json:"graal_revision" mapstructure:"graal_revision" toml:"graal_revision"`
		MxRepo          string `json:"mx_repo" mapstructure:"mx_repo" toml:"mx_repo"`
		JVMCIVersion    string `json:"jvmci_version" mapstructure:"jvmci_version" toml:"jvmci_version"`
		JDKVersion      string `json:"jdk_version" mapstructure:"jdk_version" toml:"jdk_version"`
		JVMCIURL        string `json:"jvmci_url" mapstructure:"jvmci_url" toml:"jvmci_url"`
	}

	// Target identifies the host the toolchain is provisioned for.
	Target struct {
		// OS is a GOOS value ("linux", "darwin").
		OS string
		// Arch is a GOARCH value ("amd64").
		Arch string
	}

	// InvalidPinsError collects pin validation failures.
	InvalidPinsError struct {
		FieldErrors []error
	}

	releaseURLData struct {
		Version  string
		Platform string
		Arch     string
	}

	jvmciURLData struct {
		JVMCI    string
		JDK      string
		Platform string
		Arch     string
	}
)

// DefaultPins returns the pins niprov ships with.
func DefaultPins() Pins {
	return Pins{
		GraalVersion:    DefaultGraalVersion,
		GraalReleaseURL: DefaultGraalReleaseURL,
		GraalRepo:       DefaultGraalRepo,
		GraalRevision:   DefaultGraalRevision,
		MxRepo:          DefaultMxRepo,
		JVMCIVersion:    DefaultJVMCIVersion,
		JDKVersion:      DefaultJDKVersion,
		JVMCIURL:        DefaultJVMCIURL,
	}
}

// Error implements the error interface.
func (e *InvalidPinsError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid toolchain pins: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidPins for errors.Is() compatibility.
func (e *InvalidPinsError) Unwrap() error { return ErrInvalidPins }

// Validate checks every pin. The GraalVM version must be semantic (a "v"
// prefix is implied), URL templates must parse, and nothing may be blank.
func (p Pins) Validate() error {
	var errs []error
	if !semver.IsValid(canonicalVersion(p.GraalVersion)) {
		errs = append(errs, fmt.Errorf("graal_version %q is not a semantic version", p.GraalVersion))
	}
	for _, f := range []struct{ name, value string }{
		{"graal_repo", p.GraalRepo},
		{"graal_revision", p.GraalRevision},
		{"mx_repo", p.MxRepo},
		{"jvmci_version", p.JVMCIVersion},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}
	if _, err := JDKUpdate(p.JDKVersion); err != nil {
		errs = append(errs, err)
	}
	for _, f := range []struct{ name, tmpl string }{
		{"graal_release_url", p.GraalReleaseURL},
		{"jvmci_url", p.JVMCIURL},
	} {
		if strings.TrimSpace(f.tmpl) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
			continue
		}
		if _, err := template.New(f.name).Option("missingkey=error").Parse(f.tmpl); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	if len(errs) > 0 {
		return &InvalidPinsError{FieldErrors: errs}
	}
	return nil
}

// String returns "os/arch".
func (t Target) String() string { return t.OS + "/" + t.Arch }

// ReleaseURL renders the prebuilt toolchain archive URL for t.
func (p Pins) ReleaseURL(t Target) (string, error) {
	return render("graal_release_url", p.GraalReleaseURL, releaseURLData{
		Version:  p.GraalVersion,
		Platform: platform.ReleaseOS(t.OS),
		Arch:     platform.Arch(t.Arch),
	})
}

// JDKURL renders the JVMCI-enabled JDK archive URL for t.
func (p Pins) JDKURL(t Target) (string, error) {
	return render("jvmci_url", p.JVMCIURL, jvmciURLData{
		JVMCI:    p.JVMCIVersion,
		JDK:      p.JDKVersion,
		Platform: platform.JDKOS(t.OS),
		Arch:     platform.Arch(t.Arch),
	})
}

// JDKUpdate extracts the update number from a JDK 8 version such as "8u212".
func JDKUpdate(version string) (string, error) {
	major, update, ok := strings.Cut(version, "u")
	if !ok || major != "8" || update == "" || strings.Trim(update, "0123456789") != "" {
		return "", fmt.Errorf("%w: %q (want 8u<update>)", ErrInvalidJDKVersion, version)
	}
	return update, nil
}

// ArchiveName returns the file name of the archive a URL points at.
func ArchiveName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}

func canonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

func render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing %s template: %w", name, err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return sb.String(), nil
}
