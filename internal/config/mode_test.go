// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestResolveMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		want    Mode
		wantErr bool
	}{
		{"unset", map[string]string{}, ModeRelease, false},
		{"empty", map[string]string{NightlyEnvVar: ""}, ModeNightly, false},
		{"one", map[string]string{NightlyEnvVar: "1"}, ModeNightly, false},
		{"true", map[string]string{NightlyEnvVar: "true"}, ModeNightly, false},
		{"TRUE", map[string]string{NightlyEnvVar: "TRUE"}, ModeNightly, false},
		{"zero", map[string]string{NightlyEnvVar: "0"}, ModeRelease, false},
		{"false", map[string]string{NightlyEnvVar: "false"}, ModeRelease, false},
		{"garbage", map[string]string{NightlyEnvVar: "yes please"}, "", true},
		{"other vars ignored", map[string]string{"NIGHTLY": "1"}, ModeRelease, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveMode(lookupFrom(tt.env))
			if tt.wantErr {
				var flagErr *InvalidModeFlagError
				if !errors.As(err, &flagErr) || !errors.Is(err, ErrInvalidMode) {
					t.Fatalf("ResolveMode() error = %v, want InvalidModeFlagError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveMode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveMode_Deterministic(t *testing.T) {
	t.Parallel()

	lookup := lookupFrom(map[string]string{NightlyEnvVar: "t"})
	first, _ := ResolveMode(lookup)
	for range 10 {
		if got, _ := ResolveMode(lookup); got != first {
			t.Fatalf("ResolveMode() = %q, then %q", first, got)
		}
	}
}

func TestModeSelection_Resolve(t *testing.T) {
	t.Parallel()

	nightlyEnv := lookupFrom(map[string]string{NightlyEnvVar: "1"})

	tests := []struct {
		sel     ModeSelection
		want    Mode
		wantErr bool
	}{
		{SelectAuto, ModeNightly, false},
		{"", ModeNightly, false},
		{SelectRelease, ModeRelease, false},
		{SelectNightly, ModeNightly, false},
		{"fast", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.sel), func(t *testing.T) {
			t.Parallel()

			got, err := tt.sel.Resolve(nightlyEnv)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Fatalf("Resolve() error = %v, want ErrInvalidMode", err)
				}
				if ok, _ := tt.sel.IsValid(); ok {
					t.Error("IsValid() = true for an invalid selection")
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Resolve() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestMode_IsValid(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ModeRelease, ModeNightly} {
		if ok, errs := m.IsValid(); !ok {
			t.Errorf("%q.IsValid() = false, %v", m, errs)
		}
	}
	if ok, errs := Mode("both").IsValid(); ok || !errors.Is(errs[0], ErrInvalidMode) {
		t.Errorf("Mode(both).IsValid() = %v, %v", ok, errs)
	}
}
