// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the niprov command tree.
//
// The root command and 'build' provision a native-image toolchain and compile
// the working directory's jar; 'plan' shows the same steps without running
// them; 'clean' removes the workspace; 'config' inspects configuration.
package cmd
