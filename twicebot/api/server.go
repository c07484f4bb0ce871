// Package api serves a read-only JSON view of the wordle leaderboards.
package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
)

type Config struct {
	Addr         string   `toml:"addr"`
	AllowOrigins []string `toml:"allow_origins"`
}

func (c Config) Enabled() bool {
	return c.Addr != ""
}

type leaderboardSource interface {
	Meta() wordle.PeriodMeta
	Leaderboard(ctx context.Context, field wordle.ScoreField) ([]wordle.Standing, error)
	MissingRounds(ctx context.Context, playerID string) ([]int, error)
}

type Server struct {
	app       *fiber.App
	addr      string
	wordle    leaderboardSource
	snapshots repositories.SnapshotRepository
	version   string
}

// New builds the server. snapshots may be nil when the archive is disabled.
func New(cfg Config, svc leaderboardSource, snapshots repositories.SnapshotRepository, version string) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "TwiceBot API",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	if len(cfg.AllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.AllowOrigins, ","),
			AllowMethods: "GET,OPTIONS",
		}))
	}
	app.Use(LoggingMiddleware())

	s := &Server{
		app:       app,
		addr:      cfg.Addr,
		wordle:    svc,
		snapshots: snapshots,
		version:   version,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api")
	api.Get("/leaderboard", s.leaderboard)
	api.Get("/players/:id/missing", s.missingRounds)
	api.Get("/snapshots", s.recentSnapshots)
	api.Get("/snapshots/:periodStart", s.snapshot)
}

// Start serves until Shutdown is called.
func (s *Server) Start() {
	go func() {
		slog.Info("Starting API server",
			slog.String("type", "sys"),
			slog.String("address", s.addr))
		if err := s.app.Listen(s.addr); err != nil {
			slog.Error("API server stopped",
				slog.String("type", "error"),
				slog.Any("error", err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
