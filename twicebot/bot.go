package twicebot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
	"github.com/twicebot/twicebot/twicebot/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	Mongo  *database.Mongo
	DB     *database.DB
	Wordle *wordle.Service
	Parser *wordle.Parser

	WordleRepository   *repositories.WordleRepository
	SnapshotRepository repositories.SnapshotRepository

	ImageService    *services.LeaderboardImageService
	SpacesService   *services.SpacesService
	TenorService    *services.TenorService
	PresenceService *services.PresenceService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("TwiceBot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	if b.PresenceService == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.PresenceService.Update(ctx, b.Client); err != nil {
		slog.Error("Failed to set presence",
			slog.String("type", "error"),
			slog.Any("error", err))
	}
}

// RandomReaction picks one of the configured reaction emojis.
func (b *Bot) RandomReaction() string {
	emojis := b.Cfg.Wordle.ReactionEmojis
	if len(emojis) == 0 {
		return ""
	}
	return emojis[rand.IntN(len(emojis))]
}

// Post sends content to a channel, allowing user mentions only.
func (b *Bot) Post(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := b.Client.Rest().CreateMessage(channelID, discord.MessageCreate{
		Content: content,
		AllowedMentions: &discord.AllowedMentions{
			Parse: []discord.AllowedMentionType{discord.AllowedMentionTypeUsers},
		},
	}, rest.WithCtx(ctx))
	return err
}
