package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"roomclip/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
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
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolvedPath, exists, err := config.Load(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Config file: %s\n", resolvedPath)
			} else {
				fmt.Fprintf(out, "Config file: %s (not found, defaults in effect)\n", resolvedPath)
			}
			fmt.Fprintf(out, "Workspace dir:  %s\n", cfg.Paths.WorkspaceDir)
			fmt.Fprintf(out, "Storage dir:    %s\n", cfg.Paths.StorageDir)
			fmt.Fprintf(out, "Log dir:        %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Base URL:       %s\n", cfg.Storage.BaseURL)
			fmt.Fprintf(out, "t0 policy:      %s\n", cfg.Slicing.T0Policy)
			fmt.Fprintf(out, "Cut timeout:    %ds\n", cfg.Slicing.CutTimeout)
			fmt.Fprintf(out, "Poll interval:  %ds\n", cfg.Worker.PollInterval)
			fmt.Fprintf(out, "Claim timeout:  %ds\n", cfg.Worker.ClaimTimeout)
			fmt.Fprintf(out, "API enabled:    %t\n", cfg.API.Enabled)
			if cfg.API.Enabled {
				fmt.Fprintf(out, "API bind:       %s\n", cfg.API.Bind)
			}
			fmt.Fprintf(out, "Log format:     %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log level:      %s\n", cfg.Logging.Level)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config-file", "f", "", "Configuration file to inspect")
	return cmd
}
