// SPDX-License-Identifier: MPL-2.0

// Package launchtest provides a pipeline.Launcher that records commands
// instead of running them.
package launchtest
