package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a batch of chocolates through molding and packaging and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, opts, "simulation")
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			outcomes, err := a.production.SimulateBatch(ctx, count)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				if !o.Packaged {
					fmt.Fprintf(out, "%s: %s (rejected in molding)\n", o.MoldedBatchID, o.MoldingStatus.Label())
					continue
				}
				fmt.Fprintf(out, "%s: %s -> %s: %s\n", o.MoldedBatchID, o.MoldingStatus.Label(), o.PackagedBatchID, o.PackagingStatus.Label())
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, a.quality.GenerateReport())
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of chocolates to produce")
	return cmd
}
