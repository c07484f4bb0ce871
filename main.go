package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
	"github.com/twicebot/twicebot/twicebot"
	"github.com/twicebot/twicebot/twicebot/api"
	"github.com/twicebot/twicebot/twicebot/commands"
	"github.com/twicebot/twicebot/twicebot/commands/fun"
	"github.com/twicebot/twicebot/twicebot/commands/system"
	wordlecmd "github.com/twicebot/twicebot/twicebot/commands/wordle"
	"github.com/twicebot/twicebot/twicebot/config"
	"github.com/twicebot/twicebot/twicebot/handlers"
	"github.com/twicebot/twicebot/twicebot/logger"
	"github.com/twicebot/twicebot/twicebot/scheduler"
	"github.com/twicebot/twicebot/twicebot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func fatal(msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{
		slog.String("type", "sys"),
		slog.Any("error", err),
		slog.String("error_details", fmt.Sprintf("%+v", err)),
		slog.String("status", "failed"),
	}, attrs...)...)
	os.Exit(-1)
}

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	logger.Setup(slog.LevelInfo, false)

	cfg, err := twicebot.LoadConfig(*path)
	if err != nil {
		fatal("Failed to load configuration", err)
	}
	logger.Setup(cfg.Log.Level, cfg.Log.NoColor)

	slog.Info("Starting TwiceBot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	b := twicebot.New(*cfg, version, commit)
	queryTimeout := cfg.Wordle.QueryTimeout.Duration

	mongoStart := time.Now()
	b.Mongo, err = database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		fatal("MongoDB connection failed", err, slog.Duration("attempted_for", time.Since(mongoStart)))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		_ = b.Mongo.Close(closeCtx)
	}()
	if err = b.Mongo.EnsureIndexes(ctx); err != nil {
		fatal("Failed to ensure MongoDB indexes", err)
	}
	slog.Info("MongoDB connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.Mongo.Database),
		slog.Duration("took", time.Since(mongoStart)))

	if cfg.DB.Enabled() {
		b.DB, err = database.New(ctx, cfg.DB)
		if err != nil {
			fatal("Database connection failed", err)
		}
		defer b.DB.Close()

		if err = b.DB.InitializeSchema(ctx); err != nil {
			fatal("Failed to initialize database schema", err)
		}
		b.SnapshotRepository = repositories.NewSnapshotRepository(b.DB.BunDB(), queryTimeout)
	}

	b.WordleRepository = repositories.NewWordleRepository(b.Mongo.Database(), queryTimeout)
	b.Wordle, err = wordle.NewService(b.WordleRepository, cfg.Wordle.Policy(),
		wordle.WithWriteConcurrency(cfg.Wordle.WriteConcurrency))
	if err != nil {
		fatal("Invalid scoring policy", err)
	}
	if err = b.Wordle.Load(ctx); err != nil {
		if errors.Is(err, wordle.ErrMetaNotFound) {
			fatal("Wordle meta record is missing, create it with `wordlectl init-meta`", err)
		}
		fatal("Failed to load wordle meta", err)
	}

	b.Parser, err = wordle.NewParser(cfg.Wordle.GameNames...)
	if err != nil {
		fatal("Invalid wordle game names", err)
	}

	b.PresenceService = services.NewPresenceService(cfg.Presence.Songs)
	b.TenorService, err = services.NewTenorService(cfg.Tenor.APIKey, cfg.Tenor.ClientKey,
		cfg.Tenor.Limit, cfg.Tenor.CacheSize, cfg.Tenor.Terms)
	if err != nil {
		fatal("Failed to create gif service", err)
	}

	if cfg.Spaces.Enabled() {
		b.SpacesService, err = services.NewSpacesService(ctx, cfg.Spaces.Key, cfg.Spaces.Secret,
			cfg.Spaces.Region, cfg.Spaces.Bucket, cfg.Spaces.Root)
		if err != nil {
			fatal("Failed to create spaces client", err)
		}
	}
	if cfg.Wordle.RenderImages {
		b.ImageService = services.NewLeaderboardImageService()
	}

	h := handler.New()

	h.Command("/wordle", handlers.WrapWithLogging("wordle", wordlecmd.WordleHandler(b)))
	h.Command("/ping", handlers.WrapWithLogging("ping", system.PingHandler(b)))
	h.Command("/version", handlers.WrapWithLogging("version", system.VersionHandler(b)))
	h.Command("/gif", handlers.WrapWithLogging("gif", fun.GifHandler(b)))
	h.Autocomplete("/gif", handlers.WrapAutocompleteWithLogging("gif", fun.GifAutocomplete(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		fatal("Failed to setup bot", err, slog.String("component", "bot_setup"))
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	sched, err := newScheduler(b)
	if err != nil {
		fatal("Failed to schedule jobs", err, slog.String("component", "scheduler"))
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		fatal("Failed to open gateway", err, slog.String("component", "gateway"))
	}

	sched.Start()

	if cfg.API.Enabled() {
		server := api.New(cfg.API, b.Wordle, b.SnapshotRepository, version)
		server.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				logger.LogError("API server did not stop cleanly", err)
			}
		}()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.JobTimeout)
		defer cancel()
		if err := sched.Stop(ctx); err != nil {
			logger.LogError("Scheduler did not stop cleanly", err)
		}
	}()

	slog.Info("Bot is running. Press CTRL-C to exit.", slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))
}

func newScheduler(b *twicebot.Bot) (*scheduler.Scheduler, error) {
	cfg := b.Cfg.Wordle
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(loc, config.JobTimeout)

	var opts []scheduler.ArchiverOption
	if b.ImageService != nil && b.SpacesService != nil {
		opts = append(opts, scheduler.WithRenderer(b.ImageService), scheduler.WithUploader(b.SpacesService))
	}
	if b.SnapshotRepository != nil {
		opts = append(opts, scheduler.WithSnapshotStore(b.SnapshotRepository))
	}

	jobs := []struct {
		spec string
		job  scheduler.Job
	}{
		{cfg.DailyCron, scheduler.NewDailyJob(b.Wordle)},
		{cfg.ReminderCron, scheduler.NewReminderJob(b.Wordle, b, cfg.ChannelID, cfg.LinkTemplate)},
		{cfg.RolloverCron, scheduler.NewRolloverJob(b.Wordle, b, cfg.ChannelID, scheduler.NewArchiver(opts...))},
		{b.Cfg.Presence.Cron, scheduler.NewPresenceJob(b.PresenceService, b.Client)},
	}
	for _, j := range jobs {
		if err := sched.Add(j.spec, j.job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
