// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestStep_Validate(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	tests := []struct {
		name    string
		step    Step
		wantErr bool
	}{
		{"command", Step{Name: "git", Command: &Command{Path: "git"}}, false},
		{"action", Step{Name: "verify", Action: noop}, false},
		{"shell command", Step{Name: "mx", Command: &Command{Path: "mx", Launch: LaunchShell}}, false},
		{"missing name", Step{Command: &Command{Path: "git"}}, true},
		{"nothing to do", Step{Name: "idle"}, true},
		{"both", Step{Name: "both", Command: &Command{Path: "git"}, Action: noop}, true},
		{"empty program", Step{Name: "blank", Command: &Command{Path: " "}}, true},
		{"bad launch mode", Step{Name: "odd", Command: &Command{Path: "git", Launch: "rsh"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.step.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidStep) {
				t.Errorf("errors.Is(err, ErrInvalidStep) = false: %v", err)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	cmd := &Command{
		Path: "/ws/mx/mx",
		Args: []string{"build"},
		Env:  map[string]string{"JAVA_HOME": "/ws/jdk", "A": "1"},
	}
	if got, want := cmd.String(), "A=1 JAVA_HOME=/ws/jdk /ws/mx/mx build"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	plain := &Command{Path: "tar", Args: []string{"-xzf", "a.tar.gz"}}
	if got, want := plain.String(), "tar -xzf a.tar.gz"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestExists_StatErrorsSurface(t *testing.T) {
	t.Parallel()

	c := existsCondition{path: "/denied", stat: func(string) (fs.FileInfo, error) {
		return nil, fs.ErrPermission
	}}
	met, err := c.Met()
	if met || !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Met() = %v, %v; want false, ErrPermission", met, err)
	}
	if c.String() != "/denied" {
		t.Errorf("String() = %q", c.String())
	}
}
