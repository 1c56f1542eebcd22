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

// Custom ids of the dashboard buttons and the modals they open.
const (
	ManageAddTimeID     = "/shift-manage/add-time"
	ManageRemoveTimeID  = "/shift-manage/remove-time"
	ManageEndShiftID    = "/shift-manage/end-shift"
	ManageLeaderboardID = "/shift-manage/leaderboard"
)

const (
	inputUser    = "user"
	inputMinutes = "minutes"
)

var shiftManage = discord.SlashCommandCreate{
	Name:        "shift-manage",
	Description: "Manage shifts (Admin only)",
}

func ShiftManageHandler(b *crewbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		board, err := b.Boards.Status(ctx, g)
		if err != nil {
			return err
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds:     []discord.Embed{DashboardEmbed(board)},
			Components: DashboardButtons(),
			Flags:      discord.MessageFlagEphemeral,
		})
	}
}

// DashboardEmbed lists every active shift, on duty or on break.
func DashboardEmbed(board crew.StatusBoard) discord.Embed {
	lines := make([]string, 0, len(board.OnDuty)+len(board.OnBreak))
	for _, s := range board.OnDuty {
		lines = append(lines, fmt.Sprintf("**%s** at %s (%s)", s.DisplayName, s.Airport, utils.FormatMinutes(s.ElapsedMinutes)))
	}
	for _, s := range board.OnBreak {
		lines = append(lines, fmt.Sprintf("**%s** at %s (%s, on break)", s.DisplayName, s.Airport, utils.FormatMinutes(s.ElapsedMinutes)))
	}

	return discord.NewEmbedBuilder().
		SetTitle("🔧 Shift Management Dashboard").
		SetColor(config.InfoColor).
		SetTimestamp(board.GeneratedAt).
		AddField(fmt.Sprintf("Active Shifts (%d)", len(lines)), utils.Truncate(utils.BulletList(lines, "No active shifts"), 1024), false).
		SetFooter("Use the buttons below to manage shifts", "").
		Build()
}

func DashboardButtons() []discord.ContainerComponent {
	return []discord.ContainerComponent{discord.NewActionRow(
		discord.NewSuccessButton("Add Time", ManageAddTimeID),
		discord.NewDangerButton("Remove Time", ManageRemoveTimeID),
		discord.NewSecondaryButton("End Shift", ManageEndShiftID),
		discord.NewPrimaryButton("Update Leaderboard", ManageLeaderboardID),
	)}
}

func userInput() discord.TextInputComponent {
	return discord.NewShortTextInput(inputUser, "User (mention or ID)").
		WithPlaceholder("@username or user ID").
		WithRequired(true)
}

func minutesInput(label string) discord.TextInputComponent {
	return discord.NewShortTextInput(inputMinutes, label).
		WithPlaceholder("60").
		WithRequired(true)
}

// ManageModal returns the modal opened by the dashboard button id.
func ManageModal(id string) discord.ModalCreate {
	switch id {
	case ManageAddTimeID:
		return discord.ModalCreate{
			CustomID: id,
			Title:    "Add Time to User",
			Components: []discord.ContainerComponent{
				discord.NewActionRow(userInput()),
				discord.NewActionRow(minutesInput("Time to add (in minutes)")),
			},
		}
	case ManageRemoveTimeID:
		return discord.ModalCreate{
			CustomID: id,
			Title:    "Remove Time from User",
			Components: []discord.ContainerComponent{
				discord.NewActionRow(userInput()),
				discord.NewActionRow(minutesInput("Time to remove (in minutes)")),
			},
		}
	default:
		return discord.ModalCreate{
			CustomID: ManageEndShiftID,
			Title:    "End User's Shift",
			Components: []discord.ContainerComponent{
				discord.NewActionRow(userInput()),
			},
		}
	}
}

// OpenManageModal answers a dashboard button with its modal.
func OpenManageModal(id string) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		return e.Modal(ManageModal(id))
	}
}

func UpdateLeaderboardHandler(b *crewbot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		if err := b.Boards.PublishLeaderboard(ctx, g); err != nil {
			return err
		}
		return utils.EH.CreateEphemeralSuccess(e, "📊 Leaderboard", "Leaderboard updated!")
	}
}

// AdjustTimeHandler handles the Add Time and Remove Time modals. sign is
// +1 or -1.
func AdjustTimeHandler(b *crewbot.Bot, sign int) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		userID, err := parseMemberInput(e.Data.Text(inputUser))
		if err != nil {
			return err
		}
		minutes, err := parseMinutes(e.Data.Text(inputMinutes))
		if err != nil {
			return err
		}
		name, ok := b.Members.DisplayName(ctx, g, userID.String())
		if !ok {
			return crew.Validation("User not found.")
		}

		total, err := b.Shifts.AdjustTotal(ctx, g, userID.String(), name, sign*minutes)
		if err != nil {
			return err
		}

		message := fmt.Sprintf("Added %d minutes to %s's total time.", minutes, name)
		if sign < 0 {
			message = fmt.Sprintf("Removed %d minutes from %s's total time.", minutes, name)
		}
		return utils.EH.CreateEphemeralSuccess(e, "⏱️ Time Adjusted",
			fmt.Sprintf("%s\n**New Total:** %s", message, utils.FormatMinutes(total)))
	}
}

func EndMemberShiftHandler(b *crewbot.Bot) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		g, err := guildOf(e.GuildID())
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()

		userID, err := parseMemberInput(e.Data.Text(inputUser))
		if err != nil {
			return err
		}
		name, ok := b.Members.DisplayName(ctx, g, userID.String())
		if !ok {
			return crew.Validation("User not found.")
		}

		summary, err := b.Shifts.EndShift(ctx, g, userID.String())
		if err != nil {
			if crew.KindOf(err) == crew.KindConflict {
				return crew.Validation("%s doesn't have an active shift.", name)
			}
			return err
		}
		pushStatus(b, g)

		return utils.EH.CreateEphemeralSuccess(e, "⏰ Shift Ended",
			fmt.Sprintf("Ended %s's shift. Duration: %s.", name, utils.FormatMinutes(summary.WorkedMinutes)))
	}
}
