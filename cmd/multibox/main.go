package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/iti/multibox"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "multibox",
		Short: "Simulate particles moving through a network of boxes",
		Long: `multibox simulates particles that arrive in boxes by Poisson processes,
stay for exponentially distributed times, and move between boxes (or leave)
according to a routing matrix.

A scheme directory holds two whitespace separated files:
  nodes        one row per box: birth_rate lifetime_rate
  transitions  one row per box: P(exit) P(box 1) ... P(box N)`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Run configuration file (yaml or json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug detail")

	rootCmd.AddCommand(
		newSimulateCmd(),
		newValidateCmd(),
		newSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger every command uses
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// addRunFlags registers the flags that shape a run
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("seed", 0, "Seed of the random source")
	cmd.Flags().String("mode", "", "Particle ordering: cyclic or chronological")
	cmd.Flags().String("rng", "", "Random source: pcg or stream")
}

// loadRunConfig assembles the run configuration: the config file, then the
// environment, then positional arguments [horizon scheme_dir [output]], then flags
func loadRunConfig(cmd *cobra.Command, args []string) (*multibox.RunConfig, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := multibox.LoadRunConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Horizon, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("horizon %q: %w", args[0], err)
		}
	}
	if len(args) > 1 {
		cfg.Scheme = args[1]
	}
	if len(args) > 2 {
		cfg.Output = args[2]
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("mode") {
		cfg.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("rng") {
		cfg.RNG, _ = flags.GetString("rng")
	}
	if flags.Lookup("metrics") != nil && flags.Changed("metrics") {
		cfg.Metrics, _ = flags.GetString("metrics")
	}
	if flags.Lookup("trace") != nil && flags.Changed("trace") {
		cfg.Trace, _ = flags.GetString("trace")
	}
	return cfg, nil
}
