package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
	"github.com/twicebot/twicebot/twicebot/logger"
)

var (
	initRound       int
	initPeriodStart int
	initForce       bool
)

// NewMeta builds the initial meta record. A zero periodStart starts the week
// at round.
func NewMeta(round, periodStart int) (wordle.PeriodMeta, error) {
	if round < 0 {
		return wordle.PeriodMeta{}, errors.New("--round must not be negative")
	}
	if periodStart == 0 {
		periodStart = round
	}
	meta := wordle.PeriodMeta{
		CurrentRoundIndex:     round,
		PeriodStartRoundIndex: periodStart,
	}
	return meta, meta.Validate()
}

var initMetaCmd = &cobra.Command{
	Use:   "init-meta",
	Short: "Create the wordle meta record",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := NewMeta(initRound, initPeriodStart)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		if err := s.repo.InitMeta(ctx, meta, initForce); err != nil {
			if errors.Is(err, repositories.ErrMetaExists) {
				return fmt.Errorf("%w, pass --force to overwrite it", err)
			}
			return err
		}

		logger.LogSystem("Wordle meta created",
			slog.Int("current_round", meta.CurrentRoundIndex),
			slog.Int("period_start", meta.PeriodStartRoundIndex))
		return nil
	},
}

var showMetaCmd = &cobra.Command{
	Use:   "show-meta",
	Short: "Print the wordle meta record and player count",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close(ctx)

		meta, err := s.repo.LoadMeta(ctx)
		if err != nil {
			return err
		}
		players, err := s.repo.CountPlayers(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "current round:    %d\nperiod start:     %d\nrollover pending: %v\nplayers:          %d\n",
			meta.CurrentRoundIndex, meta.PeriodStartRoundIndex, meta.RolloverPending, players)
		return nil
	},
}

func init() {
	initMetaCmd.Flags().IntVar(&initRound, "round", 0, "the live wordle round")
	initMetaCmd.Flags().IntVar(&initPeriodStart, "period-start", 0, "first round of the current week (defaults to --round)")
	initMetaCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing meta record")
	_ = initMetaCmd.MarkFlagRequired("round")

	rootCmd.AddCommand(initMetaCmd, showMetaCmd)
}
