package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"

	"github.com/groundcrew/crewbot/crewbot/config"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/utils"
)

// NameSource binds live name lookups to a guild.
type NameSource interface {
	Lookup(ctx context.Context, guildID string) crew.NameLookup
}

// Boards renders the leaderboard and status board and keeps their
// channel messages up to date.
type Boards struct {
	rest   Discord
	store  *crew.Store
	setup  *crew.Setup
	names  NameSource
	clock  crew.Clock
	footer string

	// renders serializes snapshot, upsert and record per board.
	rendersMu sync.Mutex
	renders   map[string]*sync.Mutex
}

func NewBoards(client Discord, store *crew.Store, setup *crew.Setup, names NameSource, clock crew.Clock, footer string) *Boards {
	if footer == "" {
		footer = config.DefaultFooter
	}
	return &Boards{
		rest:    client,
		store:   store,
		setup:   setup,
		names:   names,
		clock:   clock,
		footer:  footer,
		renders: make(map[string]*sync.Mutex),
	}
}

func (b *Boards) renderLock(board, guildID string) *sync.Mutex {
	key := board + ":" + guildID
	b.rendersMu.Lock()
	defer b.rendersMu.Unlock()
	mu, ok := b.renders[key]
	if !ok {
		mu = &sync.Mutex{}
		b.renders[key] = mu
	}
	return mu
}

func (b *Boards) lookup(ctx context.Context, guildID string) crew.NameLookup {
	if b.names == nil {
		return nil
	}
	return b.names.Lookup(ctx, guildID)
}

// Leaderboard returns the ranked totals of guildID. A limit <= 0 returns
// every member.
func (b *Boards) Leaderboard(ctx context.Context, guildID string, limit int) ([]crew.LeaderboardEntry, error) {
	c, err := b.store.Snapshot(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return crew.Leaderboard(c, limit, b.lookup(ctx, guildID)), nil
}

func (b *Boards) Status(ctx context.Context, guildID string) (crew.StatusBoard, error) {
	c, err := b.store.Snapshot(ctx, guildID)
	if err != nil {
		return crew.StatusBoard{}, err
	}
	return crew.Status(c, b.clock.Now(), b.lookup(ctx, guildID)), nil
}

// LeaderboardLines formats entries one rank per line.
func LeaderboardLines(entries []crew.LeaderboardEntry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s **%s** - %s", utils.RankLabel(e.Rank), e.DisplayName, utils.FormatMinutes(e.Minutes))
	}
	return lines
}

func (b *Boards) LeaderboardEmbed(entries []crew.LeaderboardEntry) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("📊 Shift Time Leaderboard").
		SetColor(config.LeaderboardGold).
		SetFooter(b.footer, "").
		SetTimestamp(b.clock.Now())
	if len(entries) == 0 {
		return eb.SetDescription("No shift data available yet.").Build()
	}
	return eb.SetDescription(strings.Join(LeaderboardLines(entries), "\n")).Build()
}

func statusLine(e crew.StatusEntry, onBreak bool) string {
	if onBreak {
		return fmt.Sprintf("**%s** at %s - on break %s (shift %s)",
			e.DisplayName, e.Airport, utils.FormatMinutes(e.BreakElapsedMinutes), utils.FormatMinutes(e.ElapsedMinutes))
	}
	return fmt.Sprintf("**%s** at %s - %s", e.DisplayName, e.Airport, utils.FormatMinutes(e.ElapsedMinutes))
}

func (b *Boards) StatusEmbed(board crew.StatusBoard) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle("🛫 Ground Crew Status").
		SetColor(config.StatusColor).
		SetFooter(b.footer, "").
		SetTimestamp(board.GeneratedAt)
	if board.Empty {
		return eb.SetDescription("Nobody is on shift right now.").Build()
	}

	onDuty := make([]string, len(board.OnDuty))
	for i, e := range board.OnDuty {
		onDuty[i] = statusLine(e, false)
	}
	onBreak := make([]string, len(board.OnBreak))
	for i, e := range board.OnBreak {
		onBreak[i] = statusLine(e, true)
	}

	return eb.
		AddField(fmt.Sprintf("On Duty (%d)", len(onDuty)), utils.Truncate(utils.BulletList(onDuty, "Nobody"), 1024), false).
		AddField(fmt.Sprintf("On Break (%d)", len(onBreak)), utils.Truncate(utils.BulletList(onBreak, "Nobody"), 1024), false).
		Build()
}

// PublishStatus edits the status message of guildID, posting a new one
// when there is none yet or it was deleted. Guilds without a status
// channel are skipped and report false.
func (b *Boards) PublishStatus(ctx context.Context, guildID string) (bool, error) {
	mu := b.renderLock("status", guildID)
	mu.Lock()
	defer mu.Unlock()

	c, err := b.store.Snapshot(ctx, guildID)
	if err != nil {
		return false, err
	}
	if c.Config == nil || c.Config.StatusChannelID == "" {
		return false, nil
	}
	board := crew.Status(c, b.clock.Now(), b.lookup(ctx, guildID))

	messageID, err := b.upsert(ctx, c.Config.StatusChannelID, c.Config.StatusMessageID, b.StatusEmbed(board))
	if err != nil {
		return false, err
	}
	return true, b.setup.RecordStatusMessage(ctx, guildID, messageID)
}

// PublishLeaderboard does the same for the leaderboard channel.
func (b *Boards) PublishLeaderboard(ctx context.Context, guildID string) error {
	mu := b.renderLock("leaderboard", guildID)
	mu.Lock()
	defer mu.Unlock()

	c, err := b.store.Snapshot(ctx, guildID)
	if err != nil {
		return err
	}
	if c.Config == nil {
		return crew.ErrNotConfigured
	}
	entries := crew.Leaderboard(c, crew.DefaultLeaderboardLimit, b.lookup(ctx, guildID))

	messageID, err := b.upsert(ctx, c.Config.LeaderboardChannelID, c.Config.LeaderboardMessageID, b.LeaderboardEmbed(entries))
	if err != nil {
		return err
	}
	return b.setup.RecordLeaderboardMessage(ctx, guildID, messageID)
}

func (b *Boards) upsert(ctx context.Context, channel, message string, embed discord.Embed) (string, error) {
	channelID, ok := parseID(channel)
	if !ok {
		return "", crew.External("Board channel not found.", nil)
	}

	if messageID, ok := parseID(message); ok {
		embeds := []discord.Embed{embed}
		_, err := b.rest.UpdateMessage(channelID, messageID, discord.MessageUpdate{Embeds: &embeds}, rest.WithCtx(ctx))
		if err == nil {
			return message, nil
		}
		if !isJSONError(err, jsonErrorUnknownMessage) {
			return "", crew.External("Could not update the board message.", err)
		}
	}

	msg, err := b.rest.CreateMessage(channelID, discord.MessageCreate{Embeds: []discord.Embed{embed}}, rest.WithCtx(ctx))
	if err != nil {
		return "", crew.External("Could not post in the board channel.", err)
	}
	return msg.ID.String(), nil
}
