package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/connections"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/spf13/cobra"
)

func newOperatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the operators, action types and request types available to app documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(writer, "OPERATOR\tMETHODS\tDESCRIPTION")
			for _, definition := range builtin.NewRegistry().Definitions() {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", definition.Name, strings.Join(definition.Methods, ","), definition.Description)
			}
			if err := writer.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nactions: %s\n", strings.Join(actions.DefaultRegistry(nil).Types(), ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "requests: %s\n", strings.Join(connections.DefaultRegistry().Types(), ", "))
			return nil
		},
	}
}
