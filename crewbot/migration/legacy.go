// Package migration converts the bot_data.json document of the first bot
// into the current crew.State.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

// naive timestamps written by datetime.isoformat without an offset
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

type Migrator struct {
	// Location applied to timestamps without an offset.
	Location *time.Location
	newID    func() string
}

func NewMigrator(loc *time.Location) *Migrator {
	if loc == nil {
		loc = time.UTC
	}
	return &Migrator{
		Location: loc,
		newID:    func() string { return uuid.NewString() },
	}
}

// Decode reads a legacy document.
func Decode(r io.Reader) (*LegacyDocument, error) {
	var doc LegacyDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode legacy document: %w", err)
	}
	return &doc, nil
}

// Import converts doc and replaces the whole contents of store with it.
func (m *Migrator) Import(ctx context.Context, store *crew.Store, doc *LegacyDocument) (Report, error) {
	state, report := m.Convert(doc)
	if err := store.Replace(ctx, state); err != nil {
		return report, fmt.Errorf("replace state: %w", err)
	}
	slog.Info("Legacy data imported",
		slog.String("type", "migration"),
		slog.Int("communities", report.Communities),
		slog.Int("operations", report.Operations),
		slog.Int("shifts", report.Shifts),
		slog.Int("totals", report.Totals),
		slog.Int("skipped", len(report.Skipped)))
	return report, nil
}

// Convert builds a crew.State from doc. Records that cannot be carried over
// are listed in the report instead of failing the import.
func (m *Migrator) Convert(doc *LegacyDocument) (*crew.State, Report) {
	state := crew.NewState()
	var report Report

	for guild, cfg := range doc.Config {
		if cfg.OperationRoleID == "" || cfg.OperationChannelID == "" || cfg.LeaderboardChannel == "" {
			report.skip("config %s: incomplete setup", guild)
			continue
		}
		state.Config[guild] = &crew.Config{
			OperationRoleID:      string(cfg.OperationRoleID),
			OperationChannelID:   string(cfg.OperationChannelID),
			LeaderboardChannelID: string(cfg.LeaderboardChannel),
		}
		report.Configs++
	}

	m.convertOperations(doc, state, &report)

	for guild, shifts := range doc.Shifts {
		for member, legacy := range shifts {
			shift, err := m.convertShift(legacy)
			if err != nil {
				report.skip("shift %s/%s: %v", guild, member, err)
				continue
			}
			if state.Shifts[guild] == nil {
				state.Shifts[guild] = make(map[string]*crew.Shift)
			}
			state.Shifts[guild][member] = shift
			report.Shifts++
			if legacy.Username != "" {
				remember(state, guild, member, legacy.Username)
			}
		}
	}

	for guild, totals := range doc.ShiftTotals {
		if totals == nil || totals.Len() == 0 {
			continue
		}
		state.Totals[guild] = totals.Clone()
		report.Totals += totals.Len()
	}

	// stored names win over names copied from shifts
	for guild, names := range doc.Usernames {
		for member, name := range names {
			remember(state, guild, member, name)
		}
	}
	for _, names := range state.Usernames {
		report.Usernames += len(names)
	}

	report.Communities = len(state.CommunityIDs())
	sort.Strings(report.Skipped)
	return state, report
}

// convertOperations keeps only the newest operation of each community.
func (m *Migrator) convertOperations(doc *LegacyDocument, state *crew.State, report *Report) {
	newest := make(map[string]*crew.Operation)
	newestKey := make(map[string]string)
	keys := make([]string, 0, len(doc.ActiveOperations))
	for key := range doc.ActiveOperations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		guild, _, ok := strings.Cut(key, "_")
		if !ok || guild == "" {
			report.skip("operation %s: key has no community prefix", key)
			continue
		}
		op, err := m.convertOperation(guild, doc.ActiveOperations[key])
		if err != nil {
			report.skip("operation %s: %v", key, err)
			continue
		}
		if prev, ok := newest[guild]; ok {
			if !op.CreatedAt.After(prev.CreatedAt) {
				report.skip("operation %s: superseded by %s", key, newestKey[guild])
				continue
			}
			report.skip("operation %s: superseded by %s", newestKey[guild], key)
		}
		newest[guild] = op
		newestKey[guild] = key
	}
	for _, op := range newest {
		state.Operations[op.ID] = op
		report.Operations++
	}
}

func (m *Migrator) convertOperation(guild string, legacy LegacyOperation) (*crew.Operation, error) {
	createdAt, err := m.parseTime(legacy.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	op := &crew.Operation{
		ID:          m.newID(),
		CommunityID: guild,
		Airport:     legacy.Airport,
		Time:        legacy.Time,
		Date:        legacy.Date,
		CreatedBy:   string(legacy.StartedBy),
		CreatedAt:   createdAt,
		Attendees:   make(map[string]crew.Attendee, len(legacy.Attendees)),
	}
	if legacy.Description != nil {
		op.Description = *legacy.Description
	}
	if legacy.OperationType != nil {
		op.Type = *legacy.OperationType
	}
	if legacy.MaxAttendees != nil && *legacy.MaxAttendees > 0 {
		capacity := *legacy.MaxAttendees
		op.Capacity = &capacity
	}
	for member, a := range legacy.Attendees {
		joinedAt, err := m.parseTime(a.JoinedAt)
		if err != nil {
			joinedAt = createdAt
		}
		op.Attendees[member] = crew.Attendee{DisplayName: a.Username, JoinedAt: joinedAt}
	}
	return op, nil
}

func (m *Migrator) convertShift(legacy LegacyShift) (*crew.Shift, error) {
	startedAt, err := m.parseTime(legacy.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	shift := &crew.Shift{
		Airport:      legacy.Airport,
		StartedAt:    startedAt,
		BreakMinutes: max(legacy.TotalBreakMinutes, 0),
	}
	if legacy.OnBreak && legacy.BreakStart != nil {
		breakStart, err := m.parseTime(*legacy.BreakStart)
		if err != nil {
			return nil, fmt.Errorf("break_start: %w", err)
		}
		shift.OnBreak = true
		shift.BreakStartedAt = &breakStart
	}
	return shift, nil
}

func (m *Migrator) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, m.Location); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func remember(state *crew.State, guild, member, name string) {
	if name == "" {
		return
	}
	if state.Usernames[guild] == nil {
		state.Usernames[guild] = make(map[string]string)
	}
	state.Usernames[guild][member] = name
}
