// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/agora/priority"
)

// PriorityCmd evaluates the priority formula for the given counts.
func PriorityCmd() *cobra.Command {
	var (
		stats     priority.Stats
		extremity float64
		meta      bool
	)
	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Compute the routing priority of a statement from its vote counts",
		// No configuration or store is needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			valid := stats.Agree+stats.Disagree <= stats.Total &&
				priority.ValidateInputs(stats.Agree, stats.Pass(), stats.Total, extremity)
			if !meta && !valid {
				return fmt.Errorf("invalid counts: agree=%d disagree=%d total=%d extremity=%v",
					stats.Agree, stats.Disagree, stats.Total, extremity)
			}
			fmt.Fprintln(cmd.OutOrStdout(), priority.CalculateCommentPriority(stats, extremity, meta))
			return nil
		},
	}
	cmd.Flags().IntVar(&stats.Agree, "agree", 0, "Agree votes")
	cmd.Flags().IntVar(&stats.Disagree, "disagree", 0, "Disagree votes")
	cmd.Flags().IntVar(&stats.Total, "total", 0, "Total votes including passes")
	cmd.Flags().Float64Var(&extremity, "extremity", 0, "Extremity in [0, 1]")
	cmd.Flags().BoolVar(&meta, "meta", false, "Treat the statement as meta")

	return cmd
}
