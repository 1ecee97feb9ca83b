package main

import (
	"github.com/Ramsey-B/fern/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	envFiles []string
	appFile  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "fern",
		Short:         "Fern serves configuration-driven pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "Env files to read before binding the environment (default .env)")
	cmd.PersistentFlags().StringVarP(&flags.appFile, "app", "a", "", "App document to load (overrides APP_FILE)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newOperatorsCmd())

	return cmd
}

// loadConfig binds the environment and applies the persistent flags on top.
func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.envFiles...)
	if err != nil {
		return config.Config{}, err
	}
	if flags.appFile != "" {
		cfg.AppFile = flags.appFile
	}
	return cfg, nil
}
