package crew

import (
	"context"
	"strings"
	"time"
)

// ShiftSummary describes a shift that has just ended.
type ShiftSummary struct {
	Airport       string
	StartedAt     time.Time
	EndedAt       time.Time
	BreakMinutes  int
	WorkedMinutes int
	TotalMinutes  int
}

// ShiftTracker runs the clock-in/break/clock-out state machine.
type ShiftTracker struct {
	store *Store
	clock Clock
}

func NewShiftTracker(store *Store, clock Clock) *ShiftTracker {
	return &ShiftTracker{store: store, clock: clock}
}

// StartShift clocks memberID in at airport.
func (t *ShiftTracker) StartShift(ctx context.Context, communityID, memberID, displayName, airport string) (Shift, error) {
	airport = strings.TrimSpace(airport)
	if airport == "" {
		return Shift{}, Validation("Airport is required.")
	}

	var started Shift
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		if _, ok := c.Shifts[memberID]; ok {
			return ErrAlreadyActive
		}
		shift := &Shift{
			Airport:   airport,
			StartedAt: t.clock.Now(),
		}
		c.Shifts[memberID] = shift
		c.RememberName(memberID, displayName)
		started = *shift
		return nil
	})
	return started, err
}

// StartBreak puts memberID's shift on break.
func (t *ShiftTracker) StartBreak(ctx context.Context, communityID, memberID string) (Shift, error) {
	var updated Shift
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		shift, ok := c.Shifts[memberID]
		if !ok {
			return ErrNotClockedIn
		}
		if shift.OnBreak {
			return ErrAlreadyOnBreak
		}
		now := t.clock.Now()
		shift.OnBreak = true
		shift.BreakStartedAt = &now
		updated = *shift.clone()
		return nil
	})
	return updated, err
}

// EndBreak closes memberID's open break and returns its length in minutes.
func (t *ShiftTracker) EndBreak(ctx context.Context, communityID, memberID string) (int, error) {
	var minutes int
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		shift, ok := c.Shifts[memberID]
		if !ok {
			return ErrNotClockedIn
		}
		if !shift.OnBreak {
			return ErrNotOnBreak
		}
		minutes = closeBreak(shift, t.clock.Now())
		return nil
	})
	return minutes, err
}

// EndShift clocks memberID out. An open break is closed first so it is
// never counted as worked time.
func (t *ShiftTracker) EndShift(ctx context.Context, communityID, memberID string) (ShiftSummary, error) {
	var summary ShiftSummary
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		shift, ok := c.Shifts[memberID]
		if !ok {
			return ErrNotClockedIn
		}
		summary = endShift(c, memberID, shift, t.clock.Now())
		return nil
	})
	return summary, err
}

// AdjustTotal adds deltaMinutes to memberID's total, flooring at zero, and
// returns the new total.
func (t *ShiftTracker) AdjustTotal(ctx context.Context, communityID, memberID, displayName string, deltaMinutes int) (int, error) {
	var total int
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		total = c.Totals.Add(memberID, deltaMinutes)
		c.RememberName(memberID, displayName)
		return nil
	})
	return total, err
}

// Total returns memberID's cumulative minutes.
func (t *ShiftTracker) Total(ctx context.Context, communityID, memberID string) (int, error) {
	c, err := t.store.Snapshot(ctx, communityID)
	if err != nil {
		return 0, err
	}
	minutes, _ := c.Totals.Get(memberID)
	return minutes, nil
}

// Active returns memberID's current shift, if any.
func (t *ShiftTracker) Active(ctx context.Context, communityID, memberID string) (*Shift, error) {
	c, err := t.store.Snapshot(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return c.Shifts[memberID], nil
}

func closeBreak(shift *Shift, now time.Time) int {
	if !shift.OnBreak || shift.BreakStartedAt == nil {
		shift.OnBreak = false
		shift.BreakStartedAt = nil
		return 0
	}
	minutes := wholeMinutes(now.Sub(*shift.BreakStartedAt))
	shift.BreakMinutes += minutes
	shift.OnBreak = false
	shift.BreakStartedAt = nil
	return minutes
}

func endShift(c *Community, memberID string, shift *Shift, now time.Time) ShiftSummary {
	closeBreak(shift, now)

	worked := wholeMinutes(now.Sub(shift.StartedAt)) - shift.BreakMinutes
	if worked < 0 {
		worked = 0
	}
	total := c.Totals.Add(memberID, worked)
	delete(c.Shifts, memberID)

	return ShiftSummary{
		Airport:       shift.Airport,
		StartedAt:     shift.StartedAt,
		EndedAt:       now,
		BreakMinutes:  shift.BreakMinutes,
		WorkedMinutes: worked,
		TotalMinutes:  total,
	}
}
