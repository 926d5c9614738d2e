package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ppifix/internal/config"
	"ppifix/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return services.Wrap(services.ErrInvalidArgument, "", "config init",
						fmt.Sprintf("config file already exists at %s (use --overwrite to replace it)", target), nil)
				} else if !os.IsNotExist(err) {
					return services.Wrap(services.ErrIO, "", "config init", "check config path", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return services.Wrap(services.ErrIO, "", "config init", "create sample config", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			path := ctx.configPath
			if _, statErr := os.Stat(path); statErr != nil {
				fmt.Fprintln(out, renderStatusLine("Config", statusWarn, path+" not found; defaults used", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config", statusOK, path, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Default mode", statusInfo, cfg.Rewrite.DefaultMode, colorize))
			fmt.Fprintln(out, renderStatusLine("Default PPI", statusInfo, fmt.Sprint(cfg.Rewrite.DefaultPPI), colorize))
			fmt.Fprintln(out, renderStatusLine("Convert to PNG", statusInfo, yesNo(cfg.Rewrite.ConvertToPNG), colorize))
			fmt.Fprintln(out, renderStatusLine("Lock directory", statusInfo, cfg.Paths.LockDir, colorize))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
