// SPDX-License-Identifier: MPL-2.0

// Package pipeline executes an ordered list of provisioning steps.
//
// Steps run strictly one after another on the calling goroutine. Each step is
// either an external command handed to a Launcher or an in-process Action.
// A step may carry a SkipIf condition (an idempotency marker) that is evaluated
// immediately before the step would run; when it is met the step is skipped
// without side effects. The first failing step stops the run: nothing after it
// executes and nothing before it is rolled back.
package pipeline
