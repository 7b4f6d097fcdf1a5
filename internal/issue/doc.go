// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors with remediation hints.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions; it may point at an Issue, a markdown guide rendered with
// glamour when the CLI reports a fatal error.
package issue
