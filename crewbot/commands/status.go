package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var status = discord.SlashCommandCreate{
	Name:        "status",
	Description: "See who is on duty and who is on break",
}

func StatusHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		rememberInvoker(ctx, b, g, e.Member(), e.User())

		board, err := b.Boards.Status(ctx, g)
		if err != nil {
			return err
		}
		return utils.EH.CreateEmbed(e, b.Boards.StatusEmbed(board), true)
	}
}
