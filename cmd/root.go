// Package cmd implements wordlectl, the operator CLI for the wordle score table.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
	"github.com/twicebot/twicebot/twicebot"
	"github.com/twicebot/twicebot/twicebot/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "wordlectl",
	Short:         "Manage the wordle score table",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

func Execute() {
	logger.Setup(slog.LevelInfo, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.LogError("Command failed", err)
		os.Exit(1)
	}
}

// store bundles what the subcommands need from the bot's config.
type store struct {
	cfg   *twicebot.Config
	mongo *database.Mongo
	repo  *repositories.WordleRepository
}

func openStore(ctx context.Context) (*store, error) {
	cfg, err := twicebot.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.NoColor)

	m, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return &store{
		cfg:   cfg,
		mongo: m,
		repo:  repositories.NewWordleRepository(m.Database(), cfg.Wordle.QueryTimeout.Duration),
	}, nil
}

func (s *store) service(ctx context.Context) (*wordle.Service, error) {
	svc, err := wordle.NewService(s.repo, s.cfg.Wordle.Policy(),
		wordle.WithWriteConcurrency(s.cfg.Wordle.WriteConcurrency))
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *store) Close(ctx context.Context) {
	if err := s.mongo.Close(ctx); err != nil {
		logger.LogError("Failed to close mongo connection", err)
	}
}
