package main

import (
	"fmt"

	"github.com/iti/multibox"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <horizon> <scheme_dir> <output>",
		Short: "Run a scheme up to a time horizon and write its event table",
		Long: `Run a scheme up to a time horizon and write its event table.

The output holds one row per event before the horizon, sorted by time, with the
columns time, node_entered, node_left, particles_in_1 ... particles_in_N.
The extension of the output name picks the format: .csv (default) or .tsv for
delimited text, .yaml or .json for a trace document.

Examples:
  multibox simulate 10 schemes/two_boxes out.csv
  multibox simulate 100 schemes/sir out.csv --seed 7 --mode chronological
  multibox simulate --config run.yaml`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, args)
			if err != nil {
				return err
			}
			if cfg.Output == "" {
				return fmt.Errorf("no output file given")
			}

			rr, err := multibox.Execute(cfg, newLogger(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d particles, %d events, table written to %s\n",
				len(rr.Particles), rr.Table().Len(), cfg.Output)
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().String("metrics", "", "Write run counters to this file in prometheus text format")
	cmd.Flags().String("trace", "", "Also write a yaml or json trace document to this file")
	return cmd
}
