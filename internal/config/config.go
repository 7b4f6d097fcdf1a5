// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/niprov/niprov/internal/checksum"
	"github.com/niprov/niprov/internal/cueutil"
	"github.com/niprov/niprov/internal/issue"
	"github.com/niprov/niprov/internal/toolchain"
	"github.com/niprov/niprov/pkg/platform"

	"github.com/google/renameio"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "niprov"
	// EnvPrefix prefixes every environment variable bound to a config key.
	EnvPrefix = "NIPROV"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// LocalConfigFileName is the project config file looked up in the working directory.
	LocalConfigFileName = "niprov.cue"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the niprov configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the path of config.cue in the configuration directory.
func UserConfigPath(configDirPath string) (string, error) {
	dir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// FindConfigFile returns the CUE file Load would merge for opts, or "" when
// none exists.
func FindConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	local := LocalConfigFileName
	if opts.WorkDir != "" {
		local = filepath.Join(opts.WorkDir, LocalConfigFileName)
	}
	if fileExists(local) {
		return local, nil
	}
	userPath, err := UserConfigPath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if fileExists(userPath) {
		return userPath, nil
	}
	return "", nil
}

// loadWithOptions merges defaults, the config file and the environment.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'niprov config init' to write a default configuration").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	resolvedPath, err := FindConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment values bypass the CUE schema, so validate the merged result.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check NIPROV_* environment variables as well as the config file").
			WithSuggestion("Run 'niprov config show' to see the effective values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance holding every default and bound to
// NIPROV_* variables ("pins.graal_version" reads NIPROV_PINS_GRAAL_VERSION).
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("workspace", defaults.Workspace)
	v.SetDefault("platform", defaults.Platform)
	v.SetDefault("arch", defaults.Arch)
	v.SetDefault("shell", string(defaults.Shell))
	v.SetDefault("host_shell", defaults.HostShell)
	v.SetDefault("input", defaults.Input)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("reflection_config", defaults.ReflectionConfig)
	v.SetDefault("resource_patterns", defaults.ResourcePatterns)
	v.SetDefault("pins.graal_version", defaults.Pins.GraalVersion)
	v.SetDefault("pins.graal_release_url", defaults.Pins.GraalReleaseURL)
	v.SetDefault("pins.graal_repo", defaults.Pins.GraalRepo)
	v.SetDefault("pins.graal_revision", defaults.Pins.GraalRevision)
	v.SetDefault("pins.mx_repo", defaults.Pins.MxRepo)
	v.SetDefault("pins.jvmci_version", defaults.Pins.JVMCIVersion)
	v.SetDefault("pins.jdk_version", defaults.Pins.JDKVersion)
	v.SetDefault("pins.jvmci_url", defaults.Pins.JVMCIURL)
	v.SetDefault("checksums.toolchain", defaults.Checksums.Toolchain)
	v.SetDefault("checksums.jdk", defaults.Checksums.JDK)
	v.SetDefault("checksums.file", defaults.Checksums.File)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so the document is decoded into a map rather than a
// Config to keep unset keys at their defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.Decode[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ChecksumSet gathers the archive digests to verify: entries of the checksums
// file first (relative to cwd), then the explicit pins keyed by the archive
// names the target downloads.
func (c *Config) ChecksumSet(cwd string, t toolchain.Target) (checksum.Set, error) {
	set := checksum.Set{}

	if c.Checksums.File != "" {
		path := c.Checksums.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		entries, err := checksum.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("checksums.file: %w", err)
		}
		set = checksum.NewSet(entries)
	}

	pinned := []struct {
		digest string
		url    func(toolchain.Target) (string, error)
	}{
		{c.Checksums.Toolchain, c.Pins.ReleaseURL},
		{c.Checksums.JDK, c.Pins.JDKURL},
	}
	for _, p := range pinned {
		if p.digest == "" {
			continue
		}
		url, err := p.url(t)
		if err != nil {
			return nil, err
		}
		if err := set.Add(toolchain.ArchiveName(url), p.digest); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// CreateDefaultConfig writes GenerateCUE(DefaultConfig()) to path unless a
// file already exists there. It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := renameio.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders cfg as a CUE document accepted by the schema. Empty
// optional fields are written as comments.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// niprov configuration\n")
	sb.WriteString("// Environment variables NIPROV_<KEY> override these values\n")
	sb.WriteString("// (nested keys join with '_', e.g. NIPROV_PINS_GRAAL_VERSION).\n\n")

	optional(&sb, "", "workspace", cfg.Workspace)
	optional(&sb, "", "platform", cfg.Platform)
	optional(&sb, "", "arch", cfg.Arch)
	fmt.Fprintf(&sb, "shell: %q\n", cfg.Shell)
	fmt.Fprintf(&sb, "host_shell: %q\n", cfg.HostShell)
	fmt.Fprintf(&sb, "input: %q\n", cfg.Input)
	fmt.Fprintf(&sb, "output: %q\n", cfg.Output)
	fmt.Fprintf(&sb, "reflection_config: %q\n", cfg.ReflectionConfig)

	sb.WriteString("resource_patterns: [\n")
	for _, p := range cfg.ResourcePatterns {
		fmt.Fprintf(&sb, "\t%q,\n", p)
	}
	sb.WriteString("]\n")

	sb.WriteString("\npins: {\n")
	fmt.Fprintf(&sb, "\tgraal_version: %q\n", cfg.Pins.GraalVersion)
	fmt.Fprintf(&sb, "\tgraal_release_url: %q\n", cfg.Pins.GraalReleaseURL)
	fmt.Fprintf(&sb, "\tgraal_repo: %q\n", cfg.Pins.GraalRepo)
	fmt.Fprintf(&sb, "\tgraal_revision: %q\n", cfg.Pins.GraalRevision)
	fmt.Fprintf(&sb, "\tmx_repo: %q\n", cfg.Pins.MxRepo)
	fmt.Fprintf(&sb, "\tjvmci_version: %q\n", cfg.Pins.JVMCIVersion)
	fmt.Fprintf(&sb, "\tjdk_version: %q\n", cfg.Pins.JDKVersion)
	fmt.Fprintf(&sb, "\tjvmci_url: %q\n", cfg.Pins.JVMCIURL)
	sb.WriteString("}\n")

	sb.WriteString("\nchecksums: {\n")
	optional(&sb, "\t", "toolchain", cfg.Checksums.Toolchain)
	optional(&sb, "\t", "jdk", cfg.Checksums.JDK)
	optional(&sb, "\t", "file", cfg.Checksums.File)
	sb.WriteString("}\n")

	return sb.String()
}

func optional(sb *strings.Builder, indent, key, value string) {
	if value == "" {
		fmt.Fprintf(sb, "%s// %s: \"\"\n", indent, key)
		return
	}
	fmt.Fprintf(sb, "%s%s: %q\n", indent, key, value)
}
