package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
)

var textChannels = []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews}

var setup = discord.SlashCommandCreate{
	Name:        "setup",
	Description: "Configure bot settings (Admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "Role to ping for operations",
			Required:    true,
		},
		discord.ApplicationCommandOptionChannel{
			Name:         "operation_channel",
			Description:  "Channel for operation announcements",
			Required:     true,
			ChannelTypes: textChannels,
		},
		discord.ApplicationCommandOptionChannel{
			Name:         "leaderboard_channel",
			Description:  "Channel for leaderboard updates",
			Required:     true,
			ChannelTypes: textChannels,
		},
		discord.ApplicationCommandOptionChannel{
			Name:         "status_channel",
			Description:  "Channel for the live status board",
			ChannelTypes: textChannels,
		},
		discord.ApplicationCommandOptionChannel{
			Name:         "welcome_channel",
			Description:  "Channel to greet new members in",
			ChannelTypes: textChannels,
		},
	},
}

func SetupHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		data := e.SlashCommandInteractionData()
		requested := crew.Config{
			OperationRoleID:      data.Snowflake("role").String(),
			OperationChannelID:   data.Snowflake("operation_channel").String(),
			LeaderboardChannelID: data.Snowflake("leaderboard_channel").String(),
		}
		if id, ok := data.OptSnowflake("status_channel"); ok {
			requested.StatusChannelID = id.String()
		}
		if id, ok := data.OptSnowflake("welcome_channel"); ok {
			requested.WelcomeChannelID = id.String()
		}

		cfg, err := b.Setup.Configure(ctx, g, requested)
		if err != nil {
			return err
		}

		if cfg.StatusChannelID != "" {
			if _, err := b.Boards.PublishStatus(ctx, g); err != nil {
				slog.Warn("Failed to post status board after setup",
					slog.String("type", "cmd"),
					slog.String("guild_id", g),
					slog.Any("error", err))
			}
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{discord.NewEmbedBuilder().
				SetTitle("✅ Setup Complete").
				SetDescription(SetupSummary(cfg)).
				SetColor(config.SuccessColor).
				Build()},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}

// SetupSummary lists the configured role and channels as mentions.
func SetupSummary(cfg crew.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Operation Role:** %s\n", roleMention(cfg.OperationRoleID))
	fmt.Fprintf(&sb, "**Operation Channel:** %s\n", channelMention(cfg.OperationChannelID))
	fmt.Fprintf(&sb, "**Leaderboard Channel:** %s", channelMention(cfg.LeaderboardChannelID))
	if cfg.StatusChannelID != "" {
		fmt.Fprintf(&sb, "\n**Status Channel:** %s", channelMention(cfg.StatusChannelID))
	}
	if cfg.WelcomeChannelID != "" {
		fmt.Fprintf(&sb, "\n**Welcome Channel:** %s", channelMention(cfg.WelcomeChannelID))
	}
	return sb.String()
}

func roleMention(id string) string {
	sf, err := snowflake.Parse(id)
	if err != nil {
		return "`" + id + "`"
	}
	return discord.RoleMention(sf)
}

func channelMention(id string) string {
	sf, err := snowflake.Parse(id)
	if err != nil {
		return "`" + id + "`"
	}
	return discord.ChannelMention(sf)
}
