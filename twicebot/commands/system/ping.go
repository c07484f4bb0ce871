package system

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/twicebot/twicebot/twicebot"
)

var Ping = discord.SlashCommandCreate{
	Name:        "ping",
	Description: "Check that the bot is alive",
}

func PingHandler(b *twicebot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		content := "Pong"
		if latency := b.Client.Gateway().Latency(); latency > 0 {
			content = fmt.Sprintf("Pong (%dms)", latency.Milliseconds())
		}
		return e.CreateMessage(discord.MessageCreate{Content: content})
	}
}
