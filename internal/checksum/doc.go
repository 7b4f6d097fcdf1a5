// SPDX-License-Identifier: MPL-2.0

// Package checksum verifies downloaded toolchain archives against pinned
// SHA-256 digests. Digests come either from configuration or from a file in
// the standard sha256sum output format.
package checksum
