package crew

import (
	"sort"
	"time"
)

// SchemaVersion is written into every flushed document.
const SchemaVersion = 1

// Config is the per-community setup.
type Config struct {
	OperationRoleID      string `json:"operation_role_id"`
	OperationChannelID   string `json:"operation_channel_id"`
	LeaderboardChannelID string `json:"leaderboard_channel_id"`
	LeaderboardMessageID string `json:"leaderboard_message_id,omitempty"`
	StatusChannelID      string `json:"status_channel_id,omitempty"`
	StatusMessageID      string `json:"status_message_id,omitempty"`
	WelcomeChannelID     string `json:"welcome_channel_id,omitempty"`
}

// Shift is an active work session. It exists only while the member is
// clocked in.
type Shift struct {
	Airport        string     `json:"airport"`
	StartedAt      time.Time  `json:"start_time"`
	OnBreak        bool       `json:"on_break"`
	BreakStartedAt *time.Time `json:"break_start,omitempty"`
	BreakMinutes   int        `json:"total_break_minutes"`
}

// Attendee is one member on an operation roster.
type Attendee struct {
	DisplayName string    `json:"username"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Operation is an admin-declared group event.
type Operation struct {
	ID          string              `json:"id"`
	CommunityID string              `json:"community_id"`
	Airport     string              `json:"airport"`
	Time        string              `json:"time"`
	Date        string              `json:"date"`
	Description string              `json:"description,omitempty"`
	Capacity    *int                `json:"max_attendees,omitempty"`
	Type        string              `json:"operation_type,omitempty"`
	CreatedBy   string              `json:"started_by"`
	CreatedAt   time.Time           `json:"started_at"`
	Attendees   map[string]Attendee `json:"attendees"`

	// Platform resources created for the operation.
	ChannelID string `json:"channel_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	RoleID    string `json:"role_id,omitempty"`
}

// Roster returns the attendees ordered by join time, then member id.
func (o *Operation) Roster() []RosterEntry {
	out := make([]RosterEntry, 0, len(o.Attendees))
	for id, a := range o.Attendees {
		out = append(out, RosterEntry{MemberID: id, Attendee: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out
}

// Full reports whether the roster has reached capacity.
func (o *Operation) Full() bool {
	return o.Capacity != nil && len(o.Attendees) >= *o.Capacity
}

type RosterEntry struct {
	MemberID string
	Attendee
}

func (o *Operation) clone() *Operation {
	c := *o
	if o.Capacity != nil {
		capacity := *o.Capacity
		c.Capacity = &capacity
	}
	c.Attendees = make(map[string]Attendee, len(o.Attendees))
	for k, v := range o.Attendees {
		c.Attendees[k] = v
	}
	return &c
}

func (s *Shift) clone() *Shift {
	c := *s
	if s.BreakStartedAt != nil {
		t := *s.BreakStartedAt
		c.BreakStartedAt = &t
	}
	return &c
}

// State is the whole persisted document.
type State struct {
	Version    int                          `json:"version"`
	Config     map[string]*Config           `json:"config"`
	Operations map[string]*Operation        `json:"active_operations"`
	Shifts     map[string]map[string]*Shift `json:"shifts"`
	Totals     map[string]*MinuteTotals     `json:"shift_totals"`
	Usernames  map[string]map[string]string `json:"usernames"`
}

// NewState returns an empty, valid document.
func NewState() *State {
	return &State{
		Version:    SchemaVersion,
		Config:     make(map[string]*Config),
		Operations: make(map[string]*Operation),
		Shifts:     make(map[string]map[string]*Shift),
		Totals:     make(map[string]*MinuteTotals),
		Usernames:  make(map[string]map[string]string),
	}
}

// normalize fills nil maps left by a partial document.
func (s *State) normalize() {
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
	if s.Config == nil {
		s.Config = make(map[string]*Config)
	}
	if s.Operations == nil {
		s.Operations = make(map[string]*Operation)
	}
	if s.Shifts == nil {
		s.Shifts = make(map[string]map[string]*Shift)
	}
	if s.Totals == nil {
		s.Totals = make(map[string]*MinuteTotals)
	}
	if s.Usernames == nil {
		s.Usernames = make(map[string]map[string]string)
	}
	for id, op := range s.Operations {
		if op == nil {
			delete(s.Operations, id)
			continue
		}
		if op.ID == "" {
			op.ID = id
		}
		if op.Attendees == nil {
			op.Attendees = make(map[string]Attendee)
		}
	}
	for _, shifts := range s.Shifts {
		for member, shift := range shifts {
			if shift == nil {
				delete(shifts, member)
			}
		}
	}
	for id, t := range s.Totals {
		if t == nil {
			s.Totals[id] = NewMinuteTotals()
		}
	}
}

// CommunityIDs returns every community that has any state, sorted.
func (s *State) CommunityIDs() []string {
	seen := make(map[string]struct{})
	for id := range s.Config {
		seen[id] = struct{}{}
	}
	for _, op := range s.Operations {
		seen[op.CommunityID] = struct{}{}
	}
	for id := range s.Shifts {
		seen[id] = struct{}{}
	}
	for id := range s.Totals {
		seen[id] = struct{}{}
	}
	for id := range s.Usernames {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Community is one community's slice of the State. Store hands out deep
// copies, so callers may mutate freely.
type Community struct {
	ID        string
	Config    *Config
	Operation *Operation
	Shifts    map[string]*Shift
	Totals    *MinuteTotals
	Usernames map[string]string
}

// community extracts a deep copy of communityID's data.
func (s *State) community(communityID string) *Community {
	c := &Community{
		ID:        communityID,
		Shifts:    make(map[string]*Shift),
		Usernames: make(map[string]string),
	}
	if cfg, ok := s.Config[communityID]; ok && cfg != nil {
		copied := *cfg
		c.Config = &copied
	}
	for _, op := range s.Operations {
		if op.CommunityID == communityID {
			c.Operation = op.clone()
			break
		}
	}
	for member, shift := range s.Shifts[communityID] {
		c.Shifts[member] = shift.clone()
	}
	c.Totals = s.Totals[communityID].Clone()
	for member, name := range s.Usernames[communityID] {
		c.Usernames[member] = name
	}
	return c
}

// install replaces communityID's data with c.
func (s *State) install(c *Community) {
	if c.Config != nil {
		s.Config[c.ID] = c.Config
	} else {
		delete(s.Config, c.ID)
	}
	for id, op := range s.Operations {
		if op.CommunityID == c.ID {
			delete(s.Operations, id)
		}
	}
	if c.Operation != nil {
		s.Operations[c.Operation.ID] = c.Operation
	}
	if len(c.Shifts) == 0 {
		delete(s.Shifts, c.ID)
	} else {
		s.Shifts[c.ID] = c.Shifts
	}
	if c.Totals.Len() == 0 {
		delete(s.Totals, c.ID)
	} else {
		s.Totals[c.ID] = c.Totals
	}
	if len(c.Usernames) == 0 {
		delete(s.Usernames, c.ID)
	} else {
		s.Usernames[c.ID] = c.Usernames
	}
}

// Clone returns a deep copy of the whole document.
func (s *State) Clone() *State {
	out := NewState()
	out.Version = s.Version
	for _, id := range s.CommunityIDs() {
		out.install(s.community(id))
	}
	return out
}

// RememberName records the last observed display name of a member.
func (c *Community) RememberName(memberID, displayName string) {
	if memberID == "" || displayName == "" {
		return
	}
	if c.Usernames == nil {
		c.Usernames = make(map[string]string)
	}
	c.Usernames[memberID] = displayName
}
