// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"niprov": Execute,
	})
}

// TestScripts runs the CLI end to end against stub curl, tar and
// native-image programs placed first on PATH.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("HOME", env.WorkDir+"/home")
			env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/xdg")
			env.Setenv("NIPROV_WORKSPACE", env.WorkDir+"/ws")
			env.Setenv("NIPROV_PLATFORM", "linux")
			env.Setenv("NIPROV_ARCH", "amd64")
			env.Setenv("NO_COLOR", "1")
			return os.MkdirAll(env.WorkDir+"/home", 0o755)
		},
	})
}
