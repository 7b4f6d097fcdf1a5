// SPDX-License-Identifier: MPL-2.0

// Package config resolves niprov's settings: defaults, an optional CUE file
// validated against an embedded schema, and NIPROV_* environment variables,
// merged with Viper in that order of increasing precedence.
//
// The file is niprov.cue in the working directory, else config.cue in the user
// configuration directory ($XDG_CONFIG_HOME/niprov on Linux,
// ~/Library/Application Support/niprov on macOS).
//
// The build mode is not part of the file; see ResolveMode.
package config
