package migration

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// LegacyID is an id the old bot wrote either as a JSON number or as a
// string. The digits are kept verbatim since snowflakes overflow float64.
type LegacyID string

func (id *LegacyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LegacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("legacy id %s: %w", data, err)
	}
	*id = LegacyID(n.String())
	return nil
}

// LegacyDocument is the bot_data.json written by the first version of the
// bot.
type LegacyDocument struct {
	Config           map[string]LegacyConfig           `json:"config"`
	ActiveOperations map[string]LegacyOperation        `json:"active_operations"`
	Shifts           map[string]map[string]LegacyShift `json:"shifts"`
	ShiftTotals      map[string]*crew.MinuteTotals     `json:"shift_totals"`
	Usernames        map[string]map[string]string      `json:"usernames"`
}

type LegacyConfig struct {
	OperationRoleID    LegacyID `json:"operation_role_id"`
	OperationChannelID LegacyID `json:"operation_channel_id"`
	LeaderboardChannel LegacyID `json:"leaderboard_channel"`
}

type LegacyOperation struct {
	Airport       string                    `json:"airport"`
	Time          string                    `json:"time"`
	Date          string                    `json:"date"`
	Description   *string                   `json:"description"`
	MaxAttendees  *int                      `json:"max_attendees"`
	OperationType *string                   `json:"operation_type"`
	StartedBy     LegacyID                  `json:"started_by"`
	StartedAt     string                    `json:"started_at"`
	Attendees     map[string]LegacyAttendee `json:"attendees"`
}

type LegacyAttendee struct {
	Username string `json:"username"`
	JoinedAt string `json:"joined_at"`
}

type LegacyShift struct {
	Airport           string  `json:"airport"`
	StartTime         string  `json:"start_time"`
	Username          string  `json:"username"`
	OnBreak           bool    `json:"on_break"`
	BreakStart        *string `json:"break_start"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
}

// Report counts what an import carried over and what it dropped.
type Report struct {
	Communities int
	Configs     int
	Operations  int
	Shifts      int
	Totals      int
	Usernames   int
	Skipped     []string
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped = append(r.Skipped, fmt.Sprintf(format, args...))
}
