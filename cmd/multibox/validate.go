package main

import (
	"fmt"
	"strings"

	"github.com/iti/multibox"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scheme_dir>",
		Short: "Check a scheme and report which boxes particles can reach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sd, err := multibox.LoadScheme(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scheme %s: %d boxes\n", sd.Name, sd.NumNodes())
			fmt.Fprintf(out, "occupiable: %s\n", joinInts(sd.Occupiable(), ", "))
			if traps := sd.Traps(); len(traps) > 0 {
				fmt.Fprintf(out, "never exit from: %s\n", joinInts(traps, ", "))
			}
			for _, id := range sd.Occupiable() {
				route, prob := sd.MostLikelyRoute(id, multibox.ExitNode)
				if route == nil {
					continue
				}
				fmt.Fprintf(out, "most likely exit from %d: %s (p=%.4g)\n", id, joinInts(route, " -> "), prob)
			}
			return nil
		},
	}
}

func joinInts(ids []int, sep string) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprint(id)
	}
	if len(strs) == 0 {
		return "none"
	}
	return strings.Join(strs, sep)
}
