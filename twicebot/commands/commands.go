package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/twicebot/twicebot/twicebot/commands/fun"
	"github.com/twicebot/twicebot/twicebot/commands/system"
	"github.com/twicebot/twicebot/twicebot/commands/wordle"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands, wordle.Commands...)
	Commands = append(Commands, system.Commands...)
	Commands = append(Commands, fun.Commands...)
}
