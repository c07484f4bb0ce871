package wordle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	domain "github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"github.com/twicebot/twicebot/twicebot"
	"github.com/twicebot/twicebot/twicebot/config"
	"github.com/twicebot/twicebot/twicebot/scheduler"
	"github.com/twicebot/twicebot/twicebot/utils"
)

var Wordle = discord.SlashCommandCreate{
	Name:        "wordle",
	Description: "Wordle scores and leaderboards",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reminder",
			Description: "List the rounds you are missing this week",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "stats",
			Description: "List a player's games by number of attempts",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "The player to look up, defaults to you",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "leaderboard",
			Description: "Show this week's leaderboard",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "leaderboard_lifetime",
			Description: "Show the all-time leaderboard",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "winners",
			Description: "Show the winners of recent weeks",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "recalculate_points",
			Description: "Rebuild every player's points from history (admin)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "round",
					Description: "The live round number, corrects the current round",
					Required:    false,
					MinValue:    utils.Ptr(0),
				},
			},
		},
	},
}

var Commands = []discord.ApplicationCommandCreate{
	Wordle,
}

func WordleHandler(b *twicebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		if data.SubCommandName == nil {
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}

		switch *data.SubCommandName {
		case "reminder":
			return handleReminder(b, e)
		case "stats":
			return handleStats(b, e)
		case "leaderboard":
			return handleLeaderboard(b, e, domain.FieldCurrentPeriod)
		case "leaderboard_lifetime":
			return handleLeaderboard(b, e, domain.FieldLifetime)
		case "winners":
			return handleWinners(b, e)
		case "recalculate_points":
			return handleRecalculate(b, e)
		default:
			return utils.EH.CreateUserError(e, "Invalid subcommand")
		}
	}
}

func handleReminder(b *twicebot.Bot, e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	missing, err := b.Wordle.MissingRounds(ctx, e.User().ID.String())
	if err != nil {
		_ = utils.EH.CreateErrorEmbed(e, "Failed to load your games, please try again.")
		return err
	}

	return e.CreateMessage(discord.MessageCreate{
		Content: domain.FormatMissingRounds(missing, b.Cfg.Wordle.LinkTemplate),
	})
}

func handleStats(b *twicebot.Bot, e *handler.CommandEvent) error {
	userID := e.User().ID
	if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
		userID = user.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	player, err := b.Wordle.Player(ctx, userID.String())
	if errors.Is(err, domain.ErrPlayerNotFound) {
		return e.CreateMessage(discord.MessageCreate{
			Content:         domain.NotPlayingMessage(userID.String()),
			AllowedMentions: &discord.AllowedMentions{},
		})
	}
	if err != nil {
		_ = utils.EH.CreateErrorEmbed(e, "Failed to load stats, please try again.")
		return err
	}

	chunks := scheduler.SplitMessage(domain.FormatStats(player), scheduler.MaxMessageLength)
	if err := e.CreateMessage(discord.MessageCreate{Content: chunks[0]}); err != nil {
		return err
	}
	for _, chunk := range chunks[1:] {
		if _, err := e.CreateFollowupMessage(discord.MessageCreate{Content: chunk}); err != nil {
			return err
		}
	}
	return nil
}

func leaderboardTitle(field domain.ScoreField) string {
	if field == domain.FieldLifetime {
		return "Wordle Leaderboard"
	}
	return "Wordle Weekly Leaderboard"
}

// PageLines splits lines into pages of size.
func PageLines(lines []string, size int) [][]string {
	if size <= 0 {
		size = config.LeaderboardPageSize
	}
	var pages [][]string
	for start := 0; start < len(lines); start += size {
		pages = append(pages, lines[start:min(start+size, len(lines))])
	}
	return pages
}

func handleLeaderboard(b *twicebot.Bot, e *handler.CommandEvent, field domain.ScoreField) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	standings, err := b.Wordle.Leaderboard(ctx, field)
	if err != nil {
		_ = utils.EH.CreateErrorEmbed(e, "Failed to load the leaderboard, please try again.")
		return err
	}
	if len(standings) == 0 {
		return e.CreateMessage(discord.MessageCreate{Content: domain.NoPlayersMessage})
	}

	pages := PageLines(domain.LeaderboardLines(standings, field), config.LeaderboardPageSize)
	title := leaderboardTitle(field)

	if len(pages) == 1 {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       title,
				Description: strings.Join(pages[0], "\n"),
				Color:       config.WordleColor,
			}},
		})
	}

	return b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			embed.
				SetTitle(title).
				SetDescription(strings.Join(pages[page], "\n")).
				SetColor(config.WordleColor).
				SetFooter(fmt.Sprintf("Page %d/%d • %d players", page+1, len(pages), len(standings)), "")
		},
		Pages:      len(pages),
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

// FormatSnapshot renders one archived period as a line of the winners list.
func FormatSnapshot(s *models.PeriodSnapshot) string {
	line := fmt.Sprintf("**Wordle %d-%d**: ", s.PeriodStart, s.PeriodEnd)
	if len(s.WinnerNames) == 0 {
		line += "no games played"
	} else {
		line += fmt.Sprintf("%s with %d points (%d players)",
			strings.Join(s.WinnerNames, ", "), s.WinningScore, s.PlayersCompeting)
	}
	if s.ImageURL != "" {
		line += fmt.Sprintf(" [leaderboard](%s)", s.ImageURL)
	}
	return line
}

func handleWinners(b *twicebot.Bot, e *handler.CommandEvent) error {
	if b.SnapshotRepository == nil {
		return utils.EH.CreateClassifiedError(e, utils.NotFoundError, "The weekly archive is not configured.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	snapshots, err := b.SnapshotRepository.Recent(ctx, config.RecentWinnersLimit)
	if err != nil {
		_ = utils.EH.CreateErrorEmbed(e, "Failed to load past winners, please try again.")
		return err
	}
	if len(snapshots) == 0 {
		return e.CreateMessage(discord.MessageCreate{Content: "No weeks have been archived yet."})
	}

	lines := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		lines = append(lines, FormatSnapshot(s))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("Wordle Weekly Winners").
		SetDescription(strings.Join(lines, "\n")).
		SetColor(config.WordleColor)
	if snapshots[0].ImageURL != "" {
		embed.SetImage(snapshots[0].ImageURL)
	}

	return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed.Build()}})
}

func handleRecalculate(b *twicebot.Bot, e *handler.CommandEvent) error {
	if !b.Cfg.Bot.IsAdmin(e.User().ID) {
		return utils.EH.CreatePermissionError(e, "Only bot admins can recalculate points.")
	}

	var liveRound *int
	if round, ok := e.SlashCommandInteractionData().OptInt("round"); ok {
		liveRound = &round
	}

	if err := e.DeferCreateMessage(false); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.JobTimeout)
	defer cancel()

	result, err := b.Wordle.Recalculate(ctx, liveRound)
	if err != nil {
		var metaErr *domain.InvalidMetaError
		if errors.As(err, &metaErr) {
			_ = utils.EH.UpdateInteractionResponse(e, "Invalid round", err.Error())
			return nil
		}
		_ = utils.EH.UpdateInteractionResponse(e, "Recalculation failed", "Scores were not changed, please try again.")
		return err
	}

	_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
		Content: utils.Ptr(FormatRecalculation(result)),
	})
	return err
}

func FormatRecalculation(r domain.Recalculation) string {
	return fmt.Sprintf("Recalculated points for %d players (%d updated). Current round is %d, week started at %d.",
		r.PlayersScanned, r.PlayersUpdated, r.Meta.CurrentRoundIndex, r.Meta.PeriodStartRoundIndex)
}
