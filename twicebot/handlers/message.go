package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/twicebot"
	"github.com/twicebot/twicebot/twicebot/config"
)

type resultSubmitter interface {
	Submit(ctx context.Context, playerID, playerName string, result wordle.GameResult) (wordle.Submission, error)
}

// ResultOutcome is what the channel sees for one parsed message.
type ResultOutcome struct {
	Reply    string
	Accepted bool
}

// ProcessResult parses content and records it. ok is false for ordinary chat.
func ProcessResult(ctx context.Context, svc resultSubmitter, parser *wordle.Parser, authorID, authorName, content string) (ResultOutcome, bool, error) {
	result, ok := parser.ParseMessage(content)
	if !ok {
		return ResultOutcome{}, false, nil
	}

	sub, err := svc.Submit(ctx, authorID, authorName, result)
	switch {
	case errors.Is(err, wordle.ErrRoundTooFarAhead):
		return ResultOutcome{
			Reply: fmt.Sprintf("<@%s> - Wordle %d is too far ahead of the current round.", authorID, result.RoundIndex),
		}, true, nil
	case err != nil:
		return ResultOutcome{}, true, err
	}

	return ResultOutcome{
		Reply:    wordle.SubmissionReply(authorID, sub),
		Accepted: sub.Accepted,
	}, true, nil
}

func authorName(m discord.Message) string {
	if m.Member != nil && m.Member.Nick != nil && *m.Member.Nick != "" {
		return *m.Member.Nick
	}
	return m.Author.EffectiveName()
}

// MessageHandler records results shared in the wordle channel.
func MessageHandler(b *twicebot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.Message.Author.Bot || e.ChannelID != b.Cfg.Wordle.ChannelID {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		authorID := e.Message.Author.ID.String()
		outcome, ok, err := ProcessResult(ctx, b.Wordle, b.Parser, authorID, authorName(e.Message), e.Message.Content)
		if !ok {
			return
		}
		if err != nil {
			slog.Error("Failed to record wordle result",
				slog.String("type", "error"),
				slog.String("user_id", authorID),
				slog.Any("error", err))
			outcome.Reply = fmt.Sprintf("<@%s> - Could not save that result, please try again.", authorID)
		}

		messageID := e.MessageID
		if _, err := e.Client().Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
			Content: outcome.Reply,
			MessageReference: &discord.MessageReference{
				MessageID:       &messageID,
				FailIfNotExists: false,
			},
			AllowedMentions: &discord.AllowedMentions{Users: []snowflake.ID{e.Message.Author.ID}},
		}); err != nil {
			slog.Error("Failed to reply to wordle result",
				slog.String("type", "error"),
				slog.Any("error", err))
		}

		if !outcome.Accepted {
			return
		}
		if emoji := b.RandomReaction(); emoji != "" {
			if err := e.Client().Rest().AddReaction(e.ChannelID, e.MessageID, emoji); err != nil {
				slog.Warn("Failed to react to wordle result",
					slog.String("type", "sys"),
					slog.String("emoji", emoji),
					slog.Any("error", err))
			}
		}
	})
}
