// SPDX-License-Identifier: MPL-2.0

// Package platform maps Go platform identifiers onto the names used by
// upstream toolchain release archives.
package platform
