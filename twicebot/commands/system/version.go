package system

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/twicebot/twicebot/twicebot"
	"github.com/twicebot/twicebot/twicebot/utils"
)

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the running version",
}

func VersionHandler(b *twicebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}
		meta := b.Wordle.Meta()
		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Content: utils.Ptr(fmt.Sprintf("Version: %s\nCommit: %s\nCurrent Wordle: %d (week from %d)",
				b.Version, b.Commit, meta.CurrentRoundIndex, meta.PeriodStartRoundIndex)),
		})
		return err
	}
}
