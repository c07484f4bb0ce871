package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/twicebot/twicebot/internal/gateways/database"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
	"github.com/twicebot/twicebot/twicebot"
)

var snapshotPeriodStart int

var showSnapshotCmd = &cobra.Command{
	Use:   "show-snapshot",
	Short: "Print the archived standings of a closed week",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := twicebot.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if !cfg.DB.Enabled() {
			return errors.New("the weekly archive needs a [db] section in the config")
		}

		ctx := cmd.Context()
		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := repositories.NewSnapshotRepository(db.BunDB(), cfg.Wordle.QueryTimeout.Duration)
		snap, err := repo.GetByPeriodStart(ctx, snapshotPeriodStart)
		if err != nil {
			if repositories.IsNotFound(err) {
				return fmt.Errorf("no archived week starts at round %d", snapshotPeriodStart)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wordle %d-%d, %d players\n", snap.PeriodStart, snap.PeriodEnd, snap.PlayersCompeting)
		if snap.ImageURL != "" {
			fmt.Fprintln(out, snap.ImageURL)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tPLAYER\tPOINTS\tGAMES")
		for _, e := range snap.Entries {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", e.Rank, e.PlayerName, e.Score, e.GamesPlayed)
		}
		return w.Flush()
	},
}

func init() {
	showSnapshotCmd.Flags().IntVar(&snapshotPeriodStart, "period-start", 0, "first round of the archived week")
	_ = showSnapshotCmd.MarkFlagRequired("period-start")
	rootCmd.AddCommand(showSnapshotCmd)
}
