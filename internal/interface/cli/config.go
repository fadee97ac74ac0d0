package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/pulse/internal/app"
	infraConfig "github.com/YoshitsuguKoike/pulse/internal/infra/config"
	"github.com/YoshitsuguKoike/pulse/internal/infra/persistence/file"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create pulse settings",
		RunE:  func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "home:           %s\n", globalConfig.Home())
			fmt.Fprintf(out, "data_dir:       %s\n", globalConfig.DataDir())
			fmt.Fprintf(out, "module:         %s\n", globalConfig.Module())
			fmt.Fprintf(out, "interval:       %s\n", globalConfig.Interval())
			fmt.Fprintf(out, "stale_interval: %s\n", globalConfig.StaleInterval())
			fmt.Fprintf(out, "signal_timeout: %s\n", globalConfig.SignalTimeout())
			fmt.Fprintf(out, "stderr_level:   %s\n", globalConfig.StderrLevel())
			source := globalConfig.ConfigSource()
			if path := globalConfig.SettingPath(); path != "" {
				source += " (" + path + ")"
			}
			fmt.Fprintf(out, "source:         %s\n", source)
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default setting.yaml into the pulse home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := app.PathsFor(globalConfig.Home())
			if !force {
				if _, err := appFs.Stat(paths.SettingYAML); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", paths.SettingYAML)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := file.WriteFileAtomic(appFs, paths.SettingYAML, infraConfig.CreateDefaultSettings(paths)); err != nil {
				return err
			}
			if err := appFs.MkdirAll(paths.Data, 0o755); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", paths.SettingYAML)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing setting.yaml")
	return cmd
}
