package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundcrew/crewbot/crewbot"
	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/services"
	"github.com/groundcrew/crewbot/crewbot/storage"
)

func TestParseMemberInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    snowflake.ID
		wantErr bool
	}{
		{name: "raw id", input: "123456789", want: 123456789},
		{name: "mention", input: "<@123456789>", want: 123456789},
		{name: "nickname mention", input: " <@!123456789> ", want: 123456789},
		{name: "username", input: "alice", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMemberInput(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, crew.KindValidation, crew.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMinutes(t *testing.T) {
	got, err := parseMinutes(" 45 ")
	require.NoError(t, err)
	assert.Equal(t, 45, got)

	for _, bad := range []string{"", "abc", "0", "-5", "1.5"} {
		_, err := parseMinutes(bad)
		assert.Error(t, err, bad)
	}
}

func TestGuildOf(t *testing.T) {
	_, err := guildOf(nil)
	assert.ErrorIs(t, err, errGuildOnly)

	id := snowflake.ID(42)
	g, err := guildOf(&id)
	require.NoError(t, err)
	assert.Equal(t, "42", g)
}

func TestAirportChoices(t *testing.T) {
	airports := services.NewAirports([]string{"IRFD Greater Rockford", "ITKO Tokyo International", "IMLR Mellor"})

	t.Run("exact code", func(t *testing.T) {
		choices := AirportChoices(airports, "IRFD")
		require.NotEmpty(t, choices)
		first := choices[0].(discord.AutocompleteChoiceString)
		assert.Equal(t, "IRFD", first.Value)
		assert.Equal(t, "IRFD - Greater Rockford", first.Name)
	})

	t.Run("free text comes first", func(t *testing.T) {
		choices := AirportChoices(airports, "Tokyo")
		require.GreaterOrEqual(t, len(choices), 2)
		assert.Equal(t, "Tokyo", choices[0].(discord.AutocompleteChoiceString).Value)
		assert.Equal(t, "ITKO", choices[1].(discord.AutocompleteChoiceString).Value)
	})

	t.Run("blank lists all", func(t *testing.T) {
		assert.Len(t, AirportChoices(airports, ""), 3)
	})
}

func TestLeaderboardPage(t *testing.T) {
	entries := make([]crew.LeaderboardEntry, 12)
	for i := range entries {
		entries[i] = crew.LeaderboardEntry{Rank: i + 1, MemberID: fmt.Sprint(i), DisplayName: fmt.Sprintf("m%d", i), Minutes: 100 - i}
	}

	first := LeaderboardPage(entries, 0)
	assert.Contains(t, first, "🥇 **m0** - 1h 40m")
	assert.NotContains(t, first, "m10")

	second := LeaderboardPage(entries, 1)
	assert.Equal(t, "11. **m10** - 1h 30m\n12. **m11** - 1h 29m", second)

	assert.Empty(t, LeaderboardPage(entries, 2))
}

func TestManageModal(t *testing.T) {
	add := ManageModal(ManageAddTimeID)
	assert.Equal(t, ManageAddTimeID, add.CustomID)
	assert.Equal(t, "Add Time to User", add.Title)
	assert.Len(t, add.Components, 2)

	remove := ManageModal(ManageRemoveTimeID)
	assert.Equal(t, "Remove Time from User", remove.Title)
	assert.Len(t, remove.Components, 2)

	end := ManageModal(ManageEndShiftID)
	assert.Equal(t, ManageEndShiftID, end.CustomID)
	assert.Len(t, end.Components, 1)
}

func TestDashboardEmbed(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	empty := DashboardEmbed(crew.StatusBoard{Empty: true, GeneratedAt: now})
	require.Len(t, empty.Fields, 1)
	assert.Equal(t, "Active Shifts (0)", empty.Fields[0].Name)
	assert.Equal(t, "No active shifts", empty.Fields[0].Value)

	board := DashboardEmbed(crew.StatusBoard{
		OnDuty:      []crew.StatusEntry{{MemberID: "1", DisplayName: "Ally", Airport: "IRFD", ElapsedMinutes: 75}},
		OnBreak:     []crew.StatusEntry{{MemberID: "2", DisplayName: "Bo", Airport: "ITKO", ElapsedMinutes: 30, BreakElapsedMinutes: 5}},
		GeneratedAt: now,
	})
	require.Len(t, board.Fields, 1)
	assert.Equal(t, "Active Shifts (2)", board.Fields[0].Name)
	assert.Equal(t, "• **Ally** at IRFD (1h 15m)\n• **Bo** at ITKO (0h 30m, on break)", board.Fields[0].Value)
}

func TestSetupSummary(t *testing.T) {
	summary := SetupSummary(crew.Config{
		OperationRoleID:      "10",
		OperationChannelID:   "20",
		LeaderboardChannelID: "30",
		StatusChannelID:      "40",
	})
	assert.Equal(t, "**Operation Role:** <@&10>\n**Operation Channel:** <#20>\n**Leaderboard Channel:** <#30>\n**Status Channel:** <#40>", summary)
	assert.NotContains(t, summary, "Welcome")
}

func TestLinksEmbed(t *testing.T) {
	embed := LinksEmbed([]crewbot.LinkConfig{{Name: "Charts", URL: "https://example.com/charts"}}, "footer")
	assert.Equal(t, "• [Charts](https://example.com/charts)", embed.Description)

	assert.Equal(t, "No links have been configured.", LinksEmbed(nil, "footer").Description)
}

func TestClockedOutEmbed(t *testing.T) {
	embed := ClockedOutEmbed(crew.ShiftSummary{Airport: "IRFD", WorkedMinutes: 85, BreakMinutes: 5, TotalMinutes: 205})
	assert.Contains(t, embed.Description, "**Shift Duration:** 1h 25m")
	assert.Contains(t, embed.Description, "**Breaks:** 0h 5m")
	assert.Contains(t, embed.Description, "**Total Time:** 3h 25m")

	noBreak := ClockedOutEmbed(crew.ShiftSummary{Airport: "IRFD", WorkedMinutes: 90, TotalMinutes: 90})
	assert.NotContains(t, noBreak.Description, "Breaks")
}

func TestCommandNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Commands {
		name := c.CommandName()
		assert.False(t, seen[name], name)
		seen[name] = true
	}
	assert.Len(t, seen, 9)
}

func TestRememberInvoker(t *testing.T) {
	ctx := context.Background()
	store := crew.NewStore(storage.NewMemory())
	require.NoError(t, store.Load(ctx))
	b := &crewbot.Bot{
		Setup:   crew.NewSetup(store),
		Members: services.NewMemberResolver(nil, 8),
	}

	nick := "Ally"
	member := &discord.ResolvedMember{Member: discord.Member{Nick: &nick, User: discord.User{ID: 201, Username: "alice"}}}
	memberID, name := rememberInvoker(ctx, b, "100", member, member.User)
	assert.Equal(t, "201", memberID)
	assert.Equal(t, "Ally", name)

	c, err := store.Snapshot(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "Ally", c.Usernames["201"])

	cached, ok := b.Members.Lookup(ctx, "100").DisplayName("201")
	assert.True(t, ok)
	assert.Equal(t, "Ally", cached)

	// Without a resolved member the user's own name is stored.
	_, name = rememberInvoker(ctx, b, "100", nil, discord.User{ID: 202, Username: "bob"})
	assert.Equal(t, "bob", name)
	c, err = store.Snapshot(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Usernames["202"])
}
