// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/niprov/niprov/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// ErrUnknownFormat is returned by 'config dump' for an unsupported --format.
var ErrUnknownFormat = errors.New("unknown format")

// newConfigCommand creates the `niprov config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage niprov configuration",
		Long: `Manage niprov configuration.

Configuration is merged from, lowest priority first:
  - built-in defaults
  - ./niprov.cue, or else the user config.cue
    (Linux: ~/.config/niprov/config.cue,
     macOS: ~/Library/Application Support/niprov/config.cue)
  - NIPROV_* environment variables (NIPROV_WORKSPACE, NIPROV_PINS_GRAAL_VERSION, ...)

--config replaces the file lookup with an explicit path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where configuration is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, local)
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "write ./"+config.LocalConfigFileName+" instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpConfig(cmd.Context(), app, format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", "cue", "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func loadConfig(ctx context.Context, app *App) (*config.Loaded, string, error) {
	cwd, err := app.Getwd()
	if err != nil {
		return nil, "", err
	}
	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.flags.configPath, WorkDir: cwd})
	if err != nil {
		return nil, "", err
	}
	return loaded, cwd, nil
}

func showConfig(ctx context.Context, app *App) error {
	loaded, cwd, err := loadConfig(ctx, app)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	w := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	row := func(indent, key, value string) {
		if value == "" {
			value = SubtitleStyle.Render("(not set)")
		} else {
			value = valueStyle.Render(value)
		}
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), value)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if loaded.Path != "" {
		row("", "Config file", loaded.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	mode, modeErr := config.ResolveMode(app.LookupEnv)
	if modeErr != nil {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("mode"), WarningStyle.Render(modeErr.Error()))
	} else {
		row("", "mode", mode.String())
	}
	row("", "target", cfg.Target().String())
	row("", "workspace", cfg.WorkspaceDir(cwd))
	row("", "shell", cfg.Shell.String())
	row("", "host_shell", cfg.HostShell)
	row("", "input", cfg.Input)
	row("", "output", cfg.Output)
	row("", "reflection_config", cfg.ReflectionConfig)
	row("", "resource_patterns", strings.Join(cfg.ResourcePatterns, " | "))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("pins"))
	row("  ", "graal_version", cfg.Pins.GraalVersion)
	row("  ", "graal_release_url", cfg.Pins.GraalReleaseURL)
	row("  ", "graal_repo", cfg.Pins.GraalRepo)
	row("  ", "graal_revision", cfg.Pins.GraalRevision)
	row("  ", "mx_repo", cfg.Pins.MxRepo)
	row("  ", "jvmci_version", cfg.Pins.JVMCIVersion)
	row("  ", "jdk_version", cfg.Pins.JDKVersion)
	row("  ", "jvmci_url", cfg.Pins.JVMCIURL)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("checksums"))
	row("  ", "toolchain", cfg.Checksums.Toolchain)
	row("  ", "jdk", cfg.Checksums.JDK)
	row("  ", "file", cfg.Checksums.File)

	return nil
}

func showConfigPath(app *App) error {
	cwd, err := app.Getwd()
	if err != nil {
		return err
	}
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	opts := config.LoadOptions{ConfigFilePath: app.flags.configPath, WorkDir: cwd}
	active, err := config.FindConfigFile(opts)
	if err != nil {
		return err
	}
	userPath, err := config.UserConfigPath("")
	if err != nil {
		return err
	}

	w := app.stdout
	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "User config file: %s\n", userPath)
	fmt.Fprintf(w, "Local config file: %s\n", filepath.Join(cwd, config.LocalConfigFileName))
	if active == "" {
		fmt.Fprintf(w, "Active: %s\n", SubtitleStyle.Render("(none, using defaults)"))
	} else {
		fmt.Fprintf(w, "Active: %s\n", active)
	}
	return nil
}

func initConfig(app *App, local bool) error {
	var path string
	if local {
		cwd, err := app.Getwd()
		if err != nil {
			return err
		}
		path = filepath.Join(cwd, config.LocalConfigFileName)
	} else {
		p, err := config.UserConfigPath("")
		if err != nil {
			return err
		}
		path = p
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func dumpConfig(ctx context.Context, app *App, format string) error {
	loaded, _, err := loadConfig(ctx, app)
	if err != nil {
		return err
	}
	return writeConfig(app.stdout, loaded.Config, format)
}

// writeConfig renders cfg in the requested format.
func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "cue":
		_, err := io.WriteString(w, config.GenerateCUE(cfg))
		return err
	case "toml":
		out, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("%w %q (valid: cue, toml)", ErrUnknownFormat, format)
	}
}
