package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/services"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

var operationStart = discord.SlashCommandCreate{
	Name:        "operation-start",
	Description: "Start a new operation (Admin only)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "airport",
			Description:  "Airport code",
			Required:     true,
			Autocomplete: true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "time",
			Description: "Operation time",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "date",
			Description: "Operation date",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "description",
			Description: "Optional description or notes about the operation",
		},
		discord.ApplicationCommandOptionInt{
			Name:        "max_attendees",
			Description: "Maximum number of attendees (leave blank for unlimited)",
			MinValue:    utils.Ptr(1),
		},
		discord.ApplicationCommandOptionString{
			Name:        "operation_type",
			Description: "Type of operation (e.g., Training, Event, Regular)",
		},
	},
}

var operationStop = discord.SlashCommandCreate{
	Name:        "operation-stop",
	Description: "Stop the current operation (Admin only)",
}

func OperationStartHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		cfg, err := b.Setup.Config(ctx, g)
		if err != nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		spec := crew.OperationSpec{
			Airport:     data.String("airport"),
			Time:        data.String("time"),
			Date:        data.String("date"),
			Description: data.String("description"),
			Type:        data.String("operation_type"),
			CreatedBy:   e.User().ID.String(),
		}
		if capacity, ok := data.OptInt("max_attendees"); ok {
			spec.Capacity = &capacity
		}

		op, err := b.Ops.Start(ctx, g, spec)
		if err != nil {
			return err
		}

		channelID, messageID, err := b.Platform.Announce(ctx, cfg, op)
		if err != nil {
			// Nobody can join an operation that was never announced.
			if _, stopErr := b.Ops.Stop(ctx, g); stopErr != nil {
				slog.Error("Failed to discard unannounced operation",
					slog.String("type", "cmd"),
					slog.String("operation_id", op.ID),
					slog.Any("error", stopErr))
			}
			return err
		}
		if err := b.Ops.AttachAnnouncement(ctx, g, op.ID, channelID, messageID); err != nil {
			return err
		}

		return utils.EH.CreateEphemeralSuccess(e, "📢 Operation Started",
			fmt.Sprintf("Operation started successfully in %s!", channelMention(channelID)))
	}
}

func OperationStopHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		op, err := b.Ops.Stop(ctx, g)
		if err != nil {
			return err
		}
		return utils.EH.CreateEphemeralSuccess(e, "🔴 Operation Stopped",
			fmt.Sprintf("Operation at **%s** stopped successfully with %d attendee(s).", op.Airport, len(op.Attendees)))
	}
}

// AttendHandler handles the Attend button under an announcement. The
// operation id is carried in the custom id so the button survives restarts.
func AttendHandler(b *crewbot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		memberID, name := rememberInvoker(ctx, b, g, e.Member(), e.User())

		op, err := b.Ops.Join(ctx, g, e.Vars["operation_id"], memberID, name)
		if err != nil {
			return err
		}
		if err := e.DeferUpdateMessage(); err != nil {
			return err
		}

		roleName, roleErr := b.Platform.GrantOperationRole(ctx, op, memberID, func(ctx context.Context, roleID string) (string, error) {
			return b.Ops.AttachRole(ctx, g, op.ID, roleID)
		})

		embeds := []discord.Embed{b.Platform.OperationEmbed(op)}
		components := services.AttendButtons(op)
		if _, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds:     &embeds,
			Components: &components,
		}); err != nil {
			// Edit the announcement through the channel when the
			// interaction response can no longer be edited.
			if refreshErr := b.Platform.RefreshAnnouncement(ctx, op); refreshErr != nil {
				return err
			}
		}

		confirmation := "✅ You have successfully joined the operation!"
		if roleErr != nil {
			slog.Warn("Failed to grant operation role",
				slog.String("type", "component"),
				slog.String("guild_id", g),
				slog.String("operation_id", op.ID),
				slog.Any("error", roleErr))
			confirmation += " " + crew.UserMessage(roleErr)
		} else {
			confirmation += fmt.Sprintf(" You now have the %s role.", roleName)
		}
		_, err = e.CreateFollowupMessage(discord.MessageCreate{
			Content: confirmation,
			Flags:   discord.MessageFlagEphemeral,
		})
		return err
	}
}

// AirportAutocomplete suggests known airports for the focused airport option.
func AirportAutocomplete(b *crewbot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "airport" {
			return e.AutocompleteResult(nil)
		}
		return e.AutocompleteResult(AirportChoices(b.Airports, focusedString(focused)))
	}
}
