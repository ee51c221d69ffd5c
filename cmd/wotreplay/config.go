package main

import (
	"fmt"

	"github.com/danmuck/wotreplay/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "wotreplay.toml"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wotreplay configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configArg(args)
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configArg(args)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (log level %s, catalog %s, %d workers)\n",
				path, cfg.Log.Level, cfg.Catalog.Path, cfg.Catalog.Workers)
			return err
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

func configArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return defaultConfigFile
}
