package crew

import (
	"fmt"
	"sort"
	"time"
)

// DefaultLeaderboardLimit is the number of ranks shown by default.
const DefaultLeaderboardLimit = 10

// NameLookup resolves a member's current display name on the platform.
type NameLookup interface {
	DisplayName(memberID string) (string, bool)
}

// NameLookupFunc adapts a function to NameLookup.
type NameLookupFunc func(memberID string) (string, bool)

func (f NameLookupFunc) DisplayName(memberID string) (string, bool) {
	return f(memberID)
}

// ResolveName tries the live lookup, then the username cache, then falls
// back to a placeholder.
func ResolveName(c *Community, live NameLookup, memberID string) string {
	if live != nil {
		if name, ok := live.DisplayName(memberID); ok && name != "" {
			return name
		}
	}
	if name, ok := c.Usernames[memberID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("User %s", memberID)
}

type LeaderboardEntry struct {
	Rank        int
	MemberID    string
	DisplayName string
	Minutes     int
}

// Leaderboard ranks members by total minutes, highest first. Ties keep the
// order in which members first got a total. A limit <= 0 returns every
// entry.
func Leaderboard(c *Community, limit int, live NameLookup) []LeaderboardEntry {
	entries := c.Totals.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Minutes > entries[j].Minutes
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]LeaderboardEntry, 0, len(entries))
	for i, e := range entries {
		out = append(out, LeaderboardEntry{
			Rank:        i + 1,
			MemberID:    e.MemberID,
			DisplayName: ResolveName(c, live, e.MemberID),
			Minutes:     e.Minutes,
		})
	}
	return out
}

type StatusEntry struct {
	MemberID            string
	DisplayName         string
	Airport             string
	StartedAt           time.Time
	ElapsedMinutes      int
	BreakElapsedMinutes int
}

// StatusBoard is who is on duty and who is on break at a point in time.
// Empty is set when nobody is on shift.
type StatusBoard struct {
	Empty       bool
	OnDuty      []StatusEntry
	OnBreak     []StatusEntry
	GeneratedAt time.Time
}

// Status builds the status board of c at now. Entries are ordered by
// shift start, earliest first.
func Status(c *Community, now time.Time, live NameLookup) StatusBoard {
	board := StatusBoard{GeneratedAt: now}
	if len(c.Shifts) == 0 {
		board.Empty = true
		return board
	}

	for memberID, shift := range c.Shifts {
		entry := StatusEntry{
			MemberID:       memberID,
			DisplayName:    ResolveName(c, live, memberID),
			Airport:        shift.Airport,
			StartedAt:      shift.StartedAt,
			ElapsedMinutes: wholeMinutes(now.Sub(shift.StartedAt)),
		}
		if shift.OnBreak {
			if shift.BreakStartedAt != nil {
				entry.BreakElapsedMinutes = wholeMinutes(now.Sub(*shift.BreakStartedAt))
			}
			board.OnBreak = append(board.OnBreak, entry)
		} else {
			board.OnDuty = append(board.OnDuty, entry)
		}
	}

	sortStatus(board.OnDuty)
	sortStatus(board.OnBreak)
	return board
}

func sortStatus(entries []StatusEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].StartedAt.Equal(entries[j].StartedAt) {
			return entries[i].StartedAt.Before(entries[j].StartedAt)
		}
		return entries[i].MemberID < entries[j].MemberID
	})
}
