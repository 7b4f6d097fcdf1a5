// SPDX-License-Identifier: MPL-2.0

// Package plan turns a build mode and resolved inputs into the ordered list
// of pipeline steps that provision a toolchain and compile a native image.
//
// Release plans download a prebuilt toolchain and run its native-image
// binary directly. Nightly plans build the generator from source with mx and
// run it through a shell, so their dynamic arguments are shell-quoted.
//
// Build is pure: it inspects no files and launches nothing. Idempotency comes
// from each step's SkipIf marker, evaluated by the runner.
package plan
