package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/singleflight"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

// AttendCustomID routes the Attend button; the operation id is the last
// path segment.
const AttendCustomID = "/attend/"

const operationRoleColor = 0x3498DB

// Platform performs the Discord side effects of operations: the
// announcement message, the per-operation role and their clean-up.
type Platform struct {
	rest   Discord
	clock  crew.Clock
	footer string
	roles  singleflight.Group
}

func NewPlatform(client Discord, clock crew.Clock, footer string) *Platform {
	if clock == nil {
		clock = crew.SystemClock{}
	}
	if footer == "" {
		footer = config.DefaultFooter
	}
	return &Platform{rest: client, clock: clock, footer: footer}
}

// OperationRoleName is the role granted to attendees of op.
func OperationRoleName(op crew.Operation) string {
	return "Operation_" + op.Date
}

// OperationEmbed renders the announcement of an active operation.
func (p *Platform) OperationEmbed(op crew.Operation) discord.Embed {
	var desc strings.Builder
	fmt.Fprintf(&desc, "**Airport:** %s\n**Time:** %s\n**Date:** %s", op.Airport, op.Time, op.Date)
	if op.Type != "" {
		fmt.Fprintf(&desc, "\n**Type:** %s", op.Type)
	}
	if op.Description != "" {
		fmt.Fprintf(&desc, "\n**Description:** %s", op.Description)
	}
	if op.Capacity != nil {
		fmt.Fprintf(&desc, "\n**Max Attendees:** %d", *op.Capacity)
	}

	roster := op.Roster()
	names := make([]string, len(roster))
	for i, a := range roster {
		names[i] = a.DisplayName
	}
	header := fmt.Sprintf("Attendees (%d)", len(roster))
	if op.Capacity != nil {
		header = fmt.Sprintf("Attendees (%d/%d)", len(roster), *op.Capacity)
	}

	return discord.NewEmbedBuilder().
		SetTitle("📢 OPERATION ACTIVE").
		SetDescription(desc.String()).
		SetColor(config.OperationColor).
		AddField(header, utils.Truncate(utils.BulletList(names, "No attendees yet"), 1024), false).
		SetFooter(p.footer, "").
		SetTimestamp(p.clock.Now()).
		Build()
}

// AttendButtons is the component row under an announcement.
func AttendButtons(op crew.Operation) []discord.ContainerComponent {
	button := discord.NewSuccessButton("Attend", AttendCustomID+op.ID).
		WithEmoji(discord.ComponentEmoji{Name: "✋"})
	if op.Full() {
		button = button.AsDisabled()
	}
	return []discord.ContainerComponent{discord.NewActionRow(button)}
}

// Announce posts op into the configured operation channel and pings the
// operation role. It returns the channel and message ids.
func (p *Platform) Announce(ctx context.Context, cfg crew.Config, op crew.Operation) (string, string, error) {
	channelID, ok := parseID(cfg.OperationChannelID)
	if !ok {
		return "", "", crew.External("Operation channel not found.", nil)
	}
	roleID, ok := parseID(cfg.OperationRoleID)
	if !ok {
		return "", "", crew.External("Operation role not found.", nil)
	}

	msg, err := p.rest.CreateMessage(channelID, discord.MessageCreate{
		Content:    fmt.Sprintf("%s New operation starting!", discord.RoleMention(roleID)),
		Embeds:     []discord.Embed{p.OperationEmbed(op)},
		Components: AttendButtons(op),
		AllowedMentions: &discord.AllowedMentions{
			Roles: []snowflake.ID{roleID},
		},
	}, rest.WithCtx(ctx))
	if err != nil {
		return "", "", crew.External("Could not post in the operation channel.", err)
	}
	return channelID.String(), msg.ID.String(), nil
}

// RefreshAnnouncement re-renders the roster of op's announcement.
func (p *Platform) RefreshAnnouncement(ctx context.Context, op crew.Operation) error {
	channelID, ok := parseID(op.ChannelID)
	if !ok {
		return nil
	}
	messageID, ok := parseID(op.MessageID)
	if !ok {
		return nil
	}
	embeds := []discord.Embed{p.OperationEmbed(op)}
	components := AttendButtons(op)
	_, err := p.rest.UpdateMessage(channelID, messageID, discord.MessageUpdate{
		Embeds:     &embeds,
		Components: &components,
	}, rest.WithCtx(ctx))
	return err
}

// GrantOperationRole gives memberID the role of op, creating the role on
// first use. Concurrent joins of the same operation share one creation;
// attach records the created role and returns the one in effect. A role
// created here is deleted again when attach fails.
func (p *Platform) GrantOperationRole(ctx context.Context, op crew.Operation, memberID string,
	attach func(ctx context.Context, roleID string) (string, error)) (string, error) {
	guildID, ok := parseID(op.CommunityID)
	if !ok {
		return "", crew.External("Server not found.", nil)
	}
	userID, ok := parseID(memberID)
	if !ok {
		return "", crew.Validation("Unknown member.")
	}

	roleID := op.RoleID
	if roleID == "" {
		v, err, _ := p.roles.Do(op.ID, func() (any, error) {
			id, created, err := p.findOrCreateRole(ctx, guildID, OperationRoleName(op))
			if err != nil {
				return "", err
			}
			attached, err := attach(ctx, id.String())
			if err != nil && created {
				if delErr := p.rest.DeleteRole(guildID, id, rest.WithCtx(ctx)); delErr != nil {
					slog.Warn("Failed to delete unattached operation role",
						slog.String("type", "sys"),
						slog.String("guild_id", guildID.String()),
						slog.String("role_id", id.String()),
						slog.Any("error", delErr))
				}
			}
			return attached, err
		})
		if err != nil {
			return "", err
		}
		roleID = v.(string)
	}

	rid, ok := parseID(roleID)
	if !ok {
		return "", crew.External("Operation role not found.", nil)
	}
	if err := p.rest.AddMemberRole(guildID, userID, rid, rest.WithCtx(ctx)); err != nil {
		return "", crew.External("Could not assign the operation role.", err)
	}
	return OperationRoleName(op), nil
}

// findOrCreateRole reports whether the returned role was created by this call.
func (p *Platform) findOrCreateRole(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, bool, error) {
	if id, ok, err := p.findRole(ctx, guildID, name); err != nil || ok {
		return id, false, err
	}
	role, err := p.rest.CreateRole(guildID, discord.RoleCreate{
		Name:  name,
		Color: operationRoleColor,
	}, rest.WithCtx(ctx))
	if err != nil {
		return 0, false, crew.External("Could not create the operation role.", err)
	}
	slog.Info("Operation role created",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.String("role", name))
	return role.ID, true, nil
}

func (p *Platform) findRole(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, bool, error) {
	roles, err := p.rest.GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return 0, false, crew.External("Could not list server roles.", err)
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, true, nil
		}
	}
	return 0, false, nil
}

// ReleaseOperation deletes the operation role and posts the end notice.
func (p *Platform) ReleaseOperation(ctx context.Context, op crew.Operation) error {
	var errs []error

	if guildID, ok := parseID(op.CommunityID); ok {
		roleID, found := parseID(op.RoleID)
		if !found {
			// Roles created before ids were recorded are found by name.
			id, ok, err := p.findRole(ctx, guildID, OperationRoleName(op))
			if err != nil {
				errs = append(errs, err)
			}
			roleID, found = id, ok
		}
		if found {
			if err := p.rest.DeleteRole(guildID, roleID, rest.WithCtx(ctx)); err != nil {
				errs = append(errs, fmt.Errorf("failed to delete operation role: %w", err))
			}
		}
	}

	if channelID, ok := parseID(op.ChannelID); ok {
		_, err := p.rest.CreateMessage(channelID, discord.MessageCreate{
			Embeds: []discord.Embed{discord.NewEmbedBuilder().
				SetTitle("🔴 OPERATION ENDED").
				SetDescription("This operation has ended. Thank you all for attending!").
				SetColor(config.ErrorColor).
				SetFooter(p.footer, "").
				SetTimestamp(p.clock.Now()).
				Build()},
		}, rest.WithCtx(ctx))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to post end notice: %w", err))
		}
		if messageID, ok := parseID(op.MessageID); ok {
			components := []discord.ContainerComponent{}
			if _, err := p.rest.UpdateMessage(channelID, messageID, discord.MessageUpdate{Components: &components}, rest.WithCtx(ctx)); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove attend button: %w", err))
			}
		}
	}

	return errors.Join(errs...)
}

var _ crew.Releaser = (*Platform)(nil)
