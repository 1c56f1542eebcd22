package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/services"
)

// MemberJoinHandler caches the names of joining members and, when
// enabled, greets them in the configured welcome channel.
func MemberJoinHandler(b *crewbot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberJoin) {
		guildID := e.GuildID.String()
		memberID := e.Member.User.ID.String()
		name := services.MemberName(e.Member)

		ctx, cancel := context.WithTimeout(context.Background(), config.PlatformCallTimeout)
		defer cancel()

		b.Members.Remember(guildID, memberID, name)
		cfg, err := b.Setup.Config(ctx, guildID)
		if errors.Is(err, crew.ErrNotConfigured) {
			return
		}
		if err != nil {
			slog.Error("Failed to read guild config", slog.String("type", "sys"), slog.Any("error", err))
			return
		}
		if err := b.Setup.RememberName(ctx, guildID, memberID, name); err != nil {
			slog.Warn("Failed to cache member name", slog.String("type", "sys"), slog.Any("error", err))
		}

		if !b.Cfg.Bot.WelcomeMembers || cfg.WelcomeChannelID == "" {
			return
		}
		channelID, err := snowflake.Parse(cfg.WelcomeChannelID)
		if err != nil {
			return
		}
		_, err = b.Client.Rest().CreateMessage(channelID, WelcomeMessage(e.Member, b.Cfg.Bot.Footer), rest.WithCtx(ctx))
		if err != nil {
			slog.Warn("Failed to post welcome message",
				slog.String("type", "sys"),
				slog.String("guild_id", guildID),
				slog.Any("error", err))
		}
	})
}

// MemberLeaveHandler drops departed members from the live name cache so
// the stored name is used for them.
func MemberLeaveHandler(b *crewbot.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMemberLeave) {
		b.Members.Forget(e.GuildID.String(), e.User.ID.String())
	})
}

func WelcomeMessage(m discord.Member, footer string) discord.MessageCreate {
	return discord.MessageCreate{
		Content: discord.UserMention(m.User.ID),
		Embeds: []discord.Embed{discord.NewEmbedBuilder().
			SetTitle("👋 Welcome to the Ground Crew!").
			SetDescription(fmt.Sprintf(
				"Welcome **%s**!\n\nUse `/shift start` to clock in at an airport, `/shift end` when you are done, "+
					"and press **Attend** on operation announcements to join them.\n`/links` has everything else you need.",
				services.MemberName(m))).
			SetColor(config.InfoColor).
			SetFooter(footer, "").
			Build()},
		AllowedMentions: &discord.AllowedMentions{Users: []snowflake.ID{m.User.ID}},
	}
}
