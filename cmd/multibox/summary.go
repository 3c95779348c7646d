package main

import (
	"github.com/iti/multibox"
	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <horizon> <scheme_dir>",
		Short: "Run a scheme and print per-box occupancy statistics",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts, err := cfg.EngineOptions()
			if err != nil {
				return err
			}

			sd, err := multibox.LoadScheme(cfg.Scheme)
			if err != nil {
				return err
			}
			eng := multibox.CreateEngine(append(opts, multibox.WithLogger(newLogger(cmd)))...)
			rr, err := eng.Run(sd, cfg.Horizon)
			if err != nil {
				return err
			}
			return multibox.WriteSummary(cmd.OutOrStdout(), multibox.Summarize(rr.Table()))
		},
	}
	addRunFlags(cmd)
	return cmd
}
