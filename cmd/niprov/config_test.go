// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/niprov/niprov/internal/config"
	"github.com/niprov/niprov/internal/testutil"
)

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Workspace = "/var/cache/niprov"

	tests := []struct {
		format  string
		want    []*regexp.Regexp
		wantErr error
	}{
		{
			format: "cue",
			want: []*regexp.Regexp{
				regexp.MustCompile(`workspace: "/var/cache/niprov"`),
				regexp.MustCompile(`graal_version: "` + regexp.QuoteMeta(cfg.Pins.GraalVersion) + `"`),
			},
		},
		{
			format: "toml",
			want: []*regexp.Regexp{
				regexp.MustCompile(`workspace = .?/var/cache/niprov.?`),
				regexp.MustCompile(`(?m)^\[pins\]$`),
				regexp.MustCompile(`graal_version = .` + regexp.QuoteMeta(cfg.Pins.GraalVersion) + `.`),
			},
		},
		{format: "yaml", wantErr: ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := writeConfig(&buf, cfg, tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("writeConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("writeConfig() error = %v", err)
			}
			for _, re := range tt.want {
				if !re.MatchString(buf.String()) {
					t.Errorf("output does not match %s:\n%s", re, buf.String())
				}
			}
		})
	}
}

func TestConfigShow(t *testing.T) {
	h := newHarness(t)
	h.env[config.NightlyEnvVar] = "1"

	if err := h.run("config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"Current Configuration", "nightly", "linux/amd64", h.ws, h.cfg.Pins.GraalVersion} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigDump_Toml(t *testing.T) {
	h := newHarness(t)

	if err := h.run("config", "dump", "--format", "toml"); err != nil {
		t.Fatalf("config dump error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "graal_repo") {
		t.Errorf("dump output:\n%s", h.stdout.String())
	}
}

func TestConfigInit_Local(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.workDir, config.LocalConfigFileName)

	if err := h.run("config", "init", "--local"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if got := testutil.MustReadFile(t, path); got != config.GenerateCUE(config.DefaultConfig()) {
		t.Errorf("written config differs from the default:\n%s", got)
	}
	if !strings.Contains(h.stdout.String(), "Created default configuration") {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	testutil.MustWriteFile(t, path, "input: \"svc.jar\"\n")
	h.stdout.Reset()
	if err := h.run("config", "init", "--local"); err != nil {
		t.Fatalf("second config init error = %v", err)
	}
	if got := testutil.MustReadFile(t, path); got != "input: \"svc.jar\"\n" {
		t.Errorf("existing config overwritten: %q", got)
	}
	if !strings.Contains(h.stdout.String(), "already exists") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestConfigInit_UserConfigDir(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(t.TempDir(), "niprov")
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	if err := h.run("config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	testutil.MustReadFile(t, filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))

	h.stdout.Reset()
	if err := h.run("config", "path"); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Config directory: "+dir) {
		t.Errorf("config path output:\n%s", h.stdout.String())
	}
}
