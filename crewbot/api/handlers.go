package api

import (
	"net/http"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

const maxLeaderboardLimit = 100

type leaderboardEntry struct {
	Rank        int    `json:"rank"`
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	Minutes     int    `json:"minutes"`
}

type leaderboardData struct {
	CommunityID string             `json:"community_id"`
	Entries     []leaderboardEntry `json:"entries"`
}

type statusEntry struct {
	MemberID            string    `json:"member_id"`
	DisplayName         string    `json:"display_name"`
	Airport             string    `json:"airport"`
	StartedAt           time.Time `json:"started_at"`
	ElapsedMinutes      int       `json:"elapsed_minutes"`
	BreakElapsedMinutes int       `json:"break_elapsed_minutes,omitempty"`
}

type statusData struct {
	CommunityID string        `json:"community_id"`
	Empty       bool          `json:"empty"`
	OnDuty      []statusEntry `json:"on_duty"`
	OnBreak     []statusEntry `json:"on_break"`
	GeneratedAt time.Time     `json:"generated_at"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return sendSuccess(c, fiber.Map{
		"status":  "ok",
		"version": s.opts.Version,
		"commit":  s.opts.Commit,
	})
}

func communityID(c *fiber.Ctx) (string, error) {
	id, err := snowflake.Parse(c.Params("id"))
	if err != nil || id == 0 {
		return "", fiber.NewError(http.StatusBadRequest, "Invalid community id")
	}
	return id.String(), nil
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	id, err := communityID(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", crew.DefaultLeaderboardLimit)
	if limit < 1 || limit > maxLeaderboardLimit {
		return fiber.NewError(http.StatusBadRequest, "limit must be between 1 and 100")
	}

	entries, err := s.source.Leaderboard(c.UserContext(), id, limit)
	if err != nil {
		return err
	}
	data := leaderboardData{CommunityID: id, Entries: make([]leaderboardEntry, len(entries))}
	for i, e := range entries {
		data.Entries[i] = leaderboardEntry{Rank: e.Rank, MemberID: e.MemberID, DisplayName: e.DisplayName, Minutes: e.Minutes}
	}
	return sendSuccess(c, data)
}

func (s *Server) status(c *fiber.Ctx) error {
	id, err := communityID(c)
	if err != nil {
		return err
	}
	board, err := s.source.Status(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendSuccess(c, statusData{
		CommunityID: id,
		Empty:       board.Empty,
		OnDuty:      statusEntries(board.OnDuty),
		OnBreak:     statusEntries(board.OnBreak),
		GeneratedAt: board.GeneratedAt,
	})
}

func statusEntries(in []crew.StatusEntry) []statusEntry {
	out := make([]statusEntry, len(in))
	for i, e := range in {
		out[i] = statusEntry{
			MemberID:            e.MemberID,
			DisplayName:         e.DisplayName,
			Airport:             e.Airport,
			StartedAt:           e.StartedAt,
			ElapsedMinutes:      e.ElapsedMinutes,
			BreakElapsedMinutes: e.BreakElapsedMinutes,
		}
	}
	return out
}
