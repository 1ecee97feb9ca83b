package main

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/loader"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/spf13/cobra"
)

func newCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the app document and run the load-time checks of every page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			app, err := loadApp(cfg.AppFile)
			if err != nil {
				return err
			}

			if err := loader.Check(app, builtin.NewRegistry(), actions.DefaultRegistry(nil)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d pages, %d connections)\n", app.AppID, len(app.Pages), len(app.Connections))
			return nil
		},
	}
}
