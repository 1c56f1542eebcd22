package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var links = discord.SlashCommandCreate{
	Name:        "links",
	Description: "Useful links for the ground crew",
}

func LinksHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateEmbed(e, LinksEmbed(b.Cfg.Links, b.Cfg.Bot.Footer), true)
	}
}

func LinksEmbed(list []crewbot.LinkConfig, footer string) discord.Embed {
	lines := make([]string, len(list))
	for i, l := range list {
		lines[i] = fmt.Sprintf("[%s](%s)", l.Name, l.URL)
	}
	return discord.NewEmbedBuilder().
		SetTitle("🔗 Useful Links").
		SetDescription(utils.BulletList(lines, "No links have been configured.")).
		SetColor(config.InfoColor).
		SetFooter(footer, "").
		Build()
}
