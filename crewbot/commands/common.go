package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/services"
)

var errGuildOnly = crew.Validation("This command can only be used in a server.")

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.CommandTimeout)
}

func guildOf(id *snowflake.ID) (string, error) {
	if id == nil {
		return "", errGuildOnly
	}
	return id.String(), nil
}

// displayName prefers the guild nickname of the invoking member.
func displayName(m *discord.ResolvedMember, u discord.User) string {
	if m != nil {
		return services.MemberName(m.Member)
	}
	return services.UserName(u)
}

// rememberInvoker records the invoking member's display name in the live
// lookup cache and the persisted username cache. It returns the member id
// and name. A failed write is logged and otherwise ignored.
func rememberInvoker(ctx context.Context, b *crewbot.Bot, guildID string, m *discord.ResolvedMember, u discord.User) (string, string) {
	memberID := u.ID.String()
	name := displayName(m, u)
	b.Members.Remember(guildID, memberID, name)
	if err := b.Setup.RememberName(ctx, guildID, memberID, name); err != nil {
		slog.Warn("Failed to cache member name",
			slog.String("type", "cmd"),
			slog.String("guild_id", guildID),
			slog.String("member_id", memberID),
			slog.Any("error", err))
	}
	return memberID, name
}

// parseMemberInput accepts a raw id or a user mention such as <@123> or <@!123>.
func parseMemberInput(s string) (snowflake.ID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[2:len(s)-1], "!")
	}
	id, err := snowflake.Parse(s)
	if err != nil || id == 0 {
		return 0, crew.Validation("Invalid user. Use a mention or a user ID.")
	}
	return id, nil
}

// parseMinutes reads a positive number of minutes typed into a modal.
func parseMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || minutes <= 0 {
		return 0, crew.Validation("Minutes must be a positive whole number.")
	}
	return minutes, nil
}

// pushStatus re-renders the status board of guildID in the background.
func pushStatus(b *crewbot.Bot, guildID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.PlatformCallTimeout)
		defer cancel()
		if _, err := b.Boards.PublishStatus(ctx, guildID); err != nil {
			slog.Warn("Failed to refresh status board",
				slog.String("type", "sys"),
				slog.String("guild_id", guildID),
				slog.Any("error", err))
		}
	}()
}
