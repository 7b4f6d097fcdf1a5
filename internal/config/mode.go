// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strconv"
)

// NightlyEnvVar selects the source-build pipeline.
const NightlyEnvVar = "NIPROV_NIGHTLY"

const (
	// ModeRelease downloads a prebuilt toolchain.
	ModeRelease Mode = "release"
	// ModeNightly builds the toolchain from source.
	ModeNightly Mode = "nightly"

	// SelectAuto defers to NIPROV_NIGHTLY.
	SelectAuto ModeSelection = "auto"
	// SelectRelease forces ModeRelease.
	SelectRelease ModeSelection = "release"
	// SelectNightly forces ModeNightly.
	SelectNightly ModeSelection = "nightly"
)

// ErrInvalidMode is the sentinel wrapped by InvalidModeFlagError and
// InvalidModeSelectionError.
var ErrInvalidMode = errors.New("invalid build mode")

type (
	// Mode is the resolved build mode. It is decided once per run.
	Mode string

	// ModeSelection is the value of the --mode flag.
	ModeSelection string

	// InvalidModeFlagError is returned when NIPROV_NIGHTLY holds a value that is
	// neither empty nor a boolean.
	InvalidModeFlagError struct {
		Value string
	}

	// InvalidModeSelectionError is returned for an unknown --mode value.
	InvalidModeSelectionError struct {
		Value ModeSelection
	}
)

func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is release or nightly.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeRelease, ModeNightly:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidMode, string(m))}
	}
}

// Error implements the error interface.
func (e *InvalidModeFlagError) Error() string {
	return fmt.Sprintf("invalid %s value %q (empty, 1 or true select nightly; 0 or false select release)", NightlyEnvVar, e.Value)
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeFlagError) Unwrap() error { return ErrInvalidMode }

// Error implements the error interface.
func (e *InvalidModeSelectionError) Error() string {
	return fmt.Sprintf("invalid mode %q (valid: auto, nightly, release)", string(e.Value))
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeSelectionError) Unwrap() error { return ErrInvalidMode }

func (s ModeSelection) String() string { return string(s) }

// IsValid returns whether the selection is auto, nightly or release.
func (s ModeSelection) IsValid() (bool, []error) {
	switch s {
	case SelectAuto, SelectNightly, SelectRelease:
		return true, nil
	default:
		return false, []error{&InvalidModeSelectionError{Value: s}}
	}
}

// Resolve turns the selection into a Mode. SelectAuto (and the empty value)
// defers to ResolveMode.
func (s ModeSelection) Resolve(lookup func(string) (string, bool)) (Mode, error) {
	switch s {
	case SelectNightly:
		return ModeNightly, nil
	case SelectRelease:
		return ModeRelease, nil
	case SelectAuto, "":
		return ResolveMode(lookup)
	default:
		return "", &InvalidModeSelectionError{Value: s}
	}
}

// ResolveMode derives the build mode from NIPROV_NIGHTLY through lookup
// (normally os.LookupEnv). Unset or a false boolean selects ModeRelease; an
// empty value or a true boolean selects ModeNightly.
func ResolveMode(lookup func(string) (string, bool)) (Mode, error) {
	v, ok := lookup(NightlyEnvVar)
	if !ok {
		return ModeRelease, nil
	}
	if v == "" {
		return ModeNightly, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return "", &InvalidModeFlagError{Value: v}
	}
	if b {
		return ModeNightly, nil
	}
	return ModeRelease, nil
}
