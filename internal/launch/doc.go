// SPDX-License-Identifier: MPL-2.0

// Package launch starts the external processes of a provisioning pipeline.
//
// Two launch paths exist and they treat quotes differently:
//
//   - Direct: the program is exec'd with its argument vector. No shell sees
//     the arguments, so every ' and " character is stripped before exec.
//   - Shell: program and arguments are joined with single spaces and handed
//     to a shell, either the host shell (sh -c) or the embedded mvdan/sh
//     interpreter. Arguments pass through unmodified so the shell can honour
//     their quoting.
//
// Standard input, output and error are streamed to the caller's writers; the
// launchers never capture output.
package launch
