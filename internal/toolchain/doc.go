// SPDX-License-Identifier: MPL-2.0

// Package toolchain knows the pinned versions of the native-image toolchain and
// where each artifact lives inside the provisioning workspace.
//
// Pins are plain data with defaults that match each other: the prebuilt GraalVM
// release, the Graal source revision used for nightly builds, the mx build tool
// repository, and the JVMCI-enabled JDK the source build needs. Layout turns a
// workspace, a platform and a set of pins into fixed filesystem paths; those
// paths double as the idempotency markers of the provisioning plan.
package toolchain
