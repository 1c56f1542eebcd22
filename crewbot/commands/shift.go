package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var shift = discord.SlashCommandCreate{
	Name:        "shift",
	Description: "Clock in, take breaks and clock out",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "start",
			Description: "Start your shift",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "airport",
					Description:  "Airport you're working at",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "end",
			Description: "End your shift",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "break-start",
			Description: "Go on break",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "break-end",
			Description: "Come back from break",
		},
	},
}

func ShiftStartHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		memberID, name := rememberInvoker(ctx, b, g, e.Member(), e.User())

		started, err := b.Shifts.StartShift(ctx, g, memberID, name, e.SlashCommandInteractionData().String("airport"))
		if err != nil {
			return err
		}
		pushStatus(b, g)
		return utils.EH.CreateEmbed(e, ClockedInEmbed(started), true)
	}
}

func ShiftEndHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		memberID, _ := rememberInvoker(ctx, b, g, e.Member(), e.User())

		summary, err := b.Shifts.EndShift(ctx, g, memberID)
		if err != nil {
			return err
		}
		pushStatus(b, g)
		return utils.EH.CreateEmbed(e, ClockedOutEmbed(summary), true)
	}
}

func BreakStartHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		memberID, _ := rememberInvoker(ctx, b, g, e.Member(), e.User())

		s, err := b.Shifts.StartBreak(ctx, g, memberID)
		if err != nil {
			return err
		}
		pushStatus(b, g)
		return utils.EH.CreateEmbed(e, discord.NewEmbedBuilder().
			SetTitle("☕ On Break").
			SetDescription(fmt.Sprintf("Enjoy your break! Your shift at **%s** is paused.\nUse `/shift break-end` when you are back.", s.Airport)).
			SetColor(config.WarningColor).
			SetTimestamp(*s.BreakStartedAt).
			Build(), true)
	}
}

func BreakEndHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		memberID, _ := rememberInvoker(ctx, b, g, e.Member(), e.User())

		minutes, err := b.Shifts.EndBreak(ctx, g, memberID)
		if err != nil {
			return err
		}
		pushStatus(b, g)
		return utils.EH.CreateEmbed(e, discord.NewEmbedBuilder().
			SetTitle("🔙 Back on Duty").
			SetDescription(fmt.Sprintf("Welcome back! Your break lasted **%s**.", utils.FormatMinutes(minutes))).
			SetColor(config.SuccessColor).
			SetTimestamp(b.Clock.Now()).
			Build(), true)
	}
}

func ClockedInEmbed(s crew.Shift) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("⏰ Clocked In").
		SetDescription(fmt.Sprintf("You have successfully clocked in at **%s**", s.Airport)).
		SetColor(config.SuccessColor).
		SetTimestamp(s.StartedAt).
		SetFooter("Have a great shift!", "").
		Build()
}

func ClockedOutEmbed(s crew.ShiftSummary) discord.Embed {
	description := fmt.Sprintf("You have successfully clocked out from **%s**\n\n**Shift Duration:** %s",
		s.Airport, utils.FormatMinutes(s.WorkedMinutes))
	if s.BreakMinutes > 0 {
		description += fmt.Sprintf("\n**Breaks:** %s", utils.FormatMinutes(s.BreakMinutes))
	}
	description += fmt.Sprintf("\n**Total Time:** %s", utils.FormatMinutes(s.TotalMinutes))

	return discord.NewEmbedBuilder().
		SetTitle("⏰ Clocked Out").
		SetDescription(description).
		SetColor(config.ErrorColor).
		SetTimestamp(s.EndedAt).
		SetFooter("Thanks for your service!", "").
		Build()
}
