package main

import (
	"fmt"

	"github.com/danmuck/wotreplay/internal/config"
	"github.com/danmuck/wotreplay/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// cli carries the state resolved by the root command for its subcommands.
type cli struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	app := &cli{cfg: config.Default()}
	root := &cobra.Command{
		Use:           "wotreplay",
		Short:         "Inspect World of Tanks replay files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "path to a wotreplay TOML config")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newParseCmd(),
		newInfoCmd(),
		newIndexCmd(app),
		newListCmd(app),
		newConfigCmd(),
	)
	return root
}

// setup resolves config and logging. Precedence: flags, env, config file, defaults.
func (a *cli) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	opts := a.cfg.LogOptions()
	logging.ApplyEnv(&opts)
	if a.logLevel != "" {
		lvl, ok := logging.ParseLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		opts.Level = lvl
	}
	opts.Out = cmd.ErrOrStderr()
	logging.Apply(opts)
	log.Debug().Str("command", cmd.CommandPath()).Str("config", a.configPath).Msg("wotreplay: configured")
	return nil
}
