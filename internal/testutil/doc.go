// SPDX-License-Identifier: MPL-2.0

// Package testutil provides Must* helpers that fail the test on setup errors,
// keeping test bodies focused on behaviour.
//
// Subpackage launchtest provides a recording pipeline.Launcher for plan and
// CLI tests that must observe commands without running them.
package testutil
