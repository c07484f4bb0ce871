package fun

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/twicebot/twicebot/twicebot"
	"github.com/twicebot/twicebot/twicebot/config"
	"github.com/twicebot/twicebot/twicebot/services"
	"github.com/twicebot/twicebot/twicebot/utils"
)

const maxAutocompleteChoices = 25

var Gif = discord.SlashCommandCreate{
	Name:        "gif",
	Description: "Post a random TWICE gif",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "query",
			Description:  "What to search for",
			Required:     false,
			Autocomplete: true,
		},
	},
}

// SearchQuery scopes a free-form query to the group.
func SearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "twice"
	}
	if strings.Contains(strings.ToLower(query), "twice") {
		return query
	}
	return "twice " + query
}

func GifHandler(b *twicebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if b.TenorService == nil || !b.TenorService.Enabled() {
			return utils.EH.CreateClassifiedError(e, utils.NotFoundError, "Gif search is not configured.")
		}

		query := SearchQuery(e.SlashCommandInteractionData().String("query"))

		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.HTTPClientTimeout)
		defer cancel()

		url, err := b.TenorService.Random(ctx, query)
		if err != nil {
			if errors.Is(err, services.ErrNoGifs) {
				_ = utils.EH.UpdateInteractionResponse(e, "No gifs", "Nothing found for "+query)
				return nil
			}
			_ = utils.EH.UpdateInteractionResponse(e, "Gif search failed", "Please try again later.")
			return err
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{Content: &url})
		return err
	}
}

func GifAutocomplete(b *twicebot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		if b.TenorService == nil {
			return e.AutocompleteResult([]discord.AutocompleteChoice{})
		}

		focused := e.Data.Focused()
		partial := ""
		if focused.Value != nil {
			if err := json.Unmarshal(focused.Value, &partial); err != nil {
				slog.Error("Failed to unmarshal focused value",
					slog.String("type", "cmd"),
					slog.String("error", err.Error()))
				return e.AutocompleteResult([]discord.AutocompleteChoice{})
			}
		}

		suggestions := b.TenorService.Suggest(partial, maxAutocompleteChoices)
		choices := make([]discord.AutocompleteChoice, 0, len(suggestions))
		for _, s := range suggestions {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  s,
				Value: s,
			})
		}
		return e.AutocompleteResult(choices)
	}
}
