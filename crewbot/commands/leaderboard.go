package commands

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/services"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "Show shift time leaderboard",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "full",
			Description: "Page through every member instead of the top 10",
		},
		discord.ApplicationCommandOptionBool{
			Name:        "image",
			Description: "Render the top 10 as an image",
		},
	},
}

func LeaderboardHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		data := e.SlashCommandInteractionData()

		rememberCtx, rememberCancel := commandContext()
		rememberInvoker(rememberCtx, b, g, e.Member(), e.User())
		rememberCancel()

		switch {
		case data.Bool("image"):
			return leaderboardImage(b, e, g)
		case data.Bool("full"):
			return leaderboardPages(b, e, g)
		}

		ctx, cancel := commandContext()
		defer cancel()
		entries, err := b.Boards.Leaderboard(ctx, g, crew.DefaultLeaderboardLimit)
		if err != nil {
			return err
		}
		return utils.EH.CreateEmbed(e, b.Boards.LeaderboardEmbed(entries), true)
	}
}

func leaderboardPages(b *crewbot.Bot, e *handler.CommandEvent, g string) error {
	ctx, cancel := commandContext()
	defer cancel()

	entries, err := b.Boards.Leaderboard(ctx, g, 0)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return utils.EH.CreateEmbed(e, b.Boards.LeaderboardEmbed(nil), true)
	}

	totalPages := (len(entries) + config.LeaderboardPageSize - 1) / config.LeaderboardPageSize
	return b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			embed.
				SetTitle("📊 Shift Time Leaderboard").
				SetDescription(LeaderboardPage(entries, page)).
				SetColor(config.LeaderboardGold).
				SetFooter(fmt.Sprintf("Page %d/%d • %d members • %s", page+1, totalPages, len(entries), b.Cfg.Bot.Footer), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, true)
}

// LeaderboardPage renders one page of LeaderboardPageSize entries.
func LeaderboardPage(entries []crew.LeaderboardEntry, page int) string {
	start := page * config.LeaderboardPageSize
	if start >= len(entries) {
		return ""
	}
	end := min(start+config.LeaderboardPageSize, len(entries))
	return strings.Join(services.LeaderboardLines(entries[start:end]), "\n")
}

func leaderboardImage(b *crewbot.Bot, e *handler.CommandEvent, g string) error {
	if err := e.DeferCreateMessage(false); err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	entries, err := b.Boards.Leaderboard(ctx, g, crew.DefaultLeaderboardLimit)
	if err != nil {
		return utils.EH.UpdateWithCrewError(e, err)
	}
	image, err := b.LeaderboardImage.GenerateLeaderboardImage(ctx, entries, b.Clock.Now())
	if err != nil {
		return utils.EH.UpdateWithCrewError(e, crew.External("Could not render the leaderboard image.", err))
	}

	_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
		Files: []*discord.File{{
			Name:   "leaderboard.png",
			Reader: bytes.NewReader(image),
		}},
	})
	return err
}
