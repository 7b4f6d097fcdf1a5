// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Arch name constants used by release archive names.
const (
	AMD64 = "amd64"
	ARM64 = "arm64"
)

// IsDarwin reports whether goos names macOS. Toolchain archives for macOS
// ship as application bundles with a nested Contents/Home directory.
func IsDarwin(goos string) bool {
	return strings.EqualFold(goos, Darwin)
}

// ReleaseOS returns the OS segment used by prebuilt toolchain archive names.
// Release archives name macOS "macos"; every other platform keeps its GOOS value.
func ReleaseOS(goos string) string {
	if IsDarwin(goos) {
		return "macos"
	}
	return strings.ToLower(goos)
}

// JDKOS returns the OS segment used by JVMCI-enabled JDK archive names.
func JDKOS(goos string) string {
	return strings.ToLower(goos)
}

// Arch normalizes machine names reported by uname into GOARCH values.
func Arch(arch string) string {
	switch strings.ToLower(arch) {
	case "x86_64", "x64", AMD64:
		return AMD64
	case "aarch64", ARM64:
		return ARM64
	default:
		return strings.ToLower(arch)
	}
}
