// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

// IO holds the streams handed to child processes.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdIO returns the current process's standard streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// mergeEnv overlays extra on top of base ("KEY=VALUE" entries). Later entries
// win; the result is sorted so child environments are deterministic.
func mergeEnv(base []string, extra map[string]string) []string {
	env := make(map[string]string, len(base)+len(extra))
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	maps.Copy(env, extra)

	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
