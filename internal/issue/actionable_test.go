// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load configuration"},
			expected: "failed to load configuration",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load configuration", Resource: "./niprov.cue"},
			expected: "failed to load configuration: ./niprov.cue",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "run step",
				Resource:  "download-toolchain",
				Cause:     errors.New("exit status 22"),
			},
			expected: "failed to run step: download-toolchain: exit status 22",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("connection refused")
	err := NewErrorContext().
		WithOperation("download toolchain").
		WithSuggestion("Check your network").
		WithSuggestions("Retry later", "Use a mirror").
		Wrap(fmt.Errorf("curl: %w", root)).
		Build()

	short := err.Format(false)
	for _, want := range []string{"  • Check your network", "  • Retry later", "  • Use a mirror"} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "2. connection refused") {
		t.Errorf("Format(true) missing chain entry:\n%s", verbose)
	}
	if !errors.Is(err, root) {
		t.Error("errors.Is through ActionableError failed")
	}
}

func TestActionableError_FormatWithoutSuggestions(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("run step extract").
		Wrap(errors.New("interrupted")).
		Build()

	if err.HasSuggestions() {
		t.Fatal("HasSuggestions() = true, want false")
	}
	if got, want := err.Format(false), err.Error(); got != want {
		t.Errorf("Format(false) = %q, want %q", got, want)
	}
}

func TestErrorContext_RequiresOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().Wrap(errors.New("x")).Build() != nil {
		t.Error("Build() without operation should be nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should be nil")
	}
	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should be nil")
	}
}

func TestIssueOf(t *testing.T) {
	t.Parallel()

	inner := NewErrorContext().WithOperation("verify").WithIssue(ChecksumMismatchId).Wrap(errors.New("bad")).BuildError()
	outer := NewErrorContext().WithOperation("build").Wrap(inner).BuildError()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"plain", errors.New("x"), 0},
		{"direct", inner, ChecksumMismatchId},
		{"nested", fmt.Errorf("wrapped: %w", outer), ChecksumMismatchId},
		{"none set", WrapWithOperation(errors.New("x"), "y"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IssueOf(tt.err); got != tt.want {
				t.Errorf("IssueOf() = %d, want %d", got, tt.want)
			}
		})
	}
}
