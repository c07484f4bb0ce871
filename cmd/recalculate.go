package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recalcRound int

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rebuild every player's points from their history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		svc, err := s.service(ctx)
		if err != nil {
			return err
		}

		var liveRound *int
		if cmd.Flags().Changed("round") {
			liveRound = &recalcRound
		}

		result, err := svc.Recalculate(ctx, liveRound)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d players, updated %d (current round %d, period start %d)\n",
			result.PlayersScanned, result.PlayersUpdated, result.Meta.CurrentRoundIndex, result.Meta.PeriodStartRoundIndex)
		return nil
	},
}

func init() {
	recalculateCmd.Flags().IntVar(&recalcRound, "round", 0, "correct the current round before recalculating")
	rootCmd.AddCommand(recalculateCmd)
}
