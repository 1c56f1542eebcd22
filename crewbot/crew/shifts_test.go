package crew

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftTracker_NinetyMinuteShift(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.shifts.StartShift(ctx, "g1", "u1", "Alice", "EGLL")
	require.NoError(t, err)

	f.clock.Advance(90 * time.Minute)
	summary, err := f.shifts.EndShift(ctx, "g1", "u1")
	require.NoError(t, err)

	assert.Equal(t, 90, summary.WorkedMinutes)
	assert.Equal(t, 90, summary.TotalMinutes)
	assert.Equal(t, "EGLL", summary.Airport)

	total, err := f.shifts.Total(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 90, total)

	active, err := f.shifts.Active(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestShiftTracker_BreakIsNotWorkedTime(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.shifts.StartShift(ctx, "g1", "u1", "Alice", "EGLL")
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	_, err = f.shifts.StartBreak(ctx, "g1", "u1")
	require.NoError(t, err)

	f.clock.Advance(5 * time.Minute)
	minutes, err := f.shifts.EndBreak(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, minutes)

	f.clock.Advance(75 * time.Minute)
	summary, err := f.shifts.EndShift(ctx, "g1", "u1")
	require.NoError(t, err)

	assert.Equal(t, 85, summary.WorkedMinutes)
	assert.Equal(t, 5, summary.BreakMinutes)
}

func TestShiftTracker_EndShiftClosesOpenBreak(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.shifts.StartShift(ctx, "g1", "u1", "Alice", "KJFK")
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)
	_, err = f.shifts.StartBreak(ctx, "g1", "u1")
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	summary, err := f.shifts.EndShift(ctx, "g1", "u1")
	require.NoError(t, err)

	assert.Equal(t, 20, summary.BreakMinutes)
	assert.Equal(t, 30, summary.WorkedMinutes)
}

func TestShiftTracker_PartialMinutesAreFloored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.shifts.StartShift(ctx, "g1", "u1", "Alice", "KJFK")
	require.NoError(t, err)

	f.clock.Advance(59*time.Minute + 59*time.Second)
	summary, err := f.shifts.EndShift(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 59, summary.WorkedMinutes)
}

func TestShiftTracker_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture) error
		run     func(f *fixture) error
		wantErr error
	}{
		{
			name: "start twice",
			prepare: func(f *fixture) error {
				_, err := f.shifts.StartShift(context.Background(), "g1", "u1", "Alice", "EGLL")
				return err
			},
			run: func(f *fixture) error {
				_, err := f.shifts.StartShift(context.Background(), "g1", "u1", "Alice", "EGKK")
				return err
			},
			wantErr: ErrAlreadyActive,
		},
		{
			name: "end without shift",
			run: func(f *fixture) error {
				_, err := f.shifts.EndShift(context.Background(), "g1", "u1")
				return err
			},
			wantErr: ErrNotClockedIn,
		},
		{
			name: "break without shift",
			run: func(f *fixture) error {
				_, err := f.shifts.StartBreak(context.Background(), "g1", "u1")
				return err
			},
			wantErr: ErrNotClockedIn,
		},
		{
			name: "break twice",
			prepare: func(f *fixture) error {
				if _, err := f.shifts.StartShift(context.Background(), "g1", "u1", "Alice", "EGLL"); err != nil {
					return err
				}
				_, err := f.shifts.StartBreak(context.Background(), "g1", "u1")
				return err
			},
			run: func(f *fixture) error {
				_, err := f.shifts.StartBreak(context.Background(), "g1", "u1")
				return err
			},
			wantErr: ErrAlreadyOnBreak,
		},
		{
			name: "end break while working",
			prepare: func(f *fixture) error {
				_, err := f.shifts.StartShift(context.Background(), "g1", "u1", "Alice", "EGLL")
				return err
			},
			run: func(f *fixture) error {
				_, err := f.shifts.EndBreak(context.Background(), "g1", "u1")
				return err
			},
			wantErr: ErrNotOnBreak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				require.NoError(t, tt.prepare(f))
			}
			err := tt.run(f)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, KindConflict, KindOf(err))
		})
	}
}

func TestShiftTracker_BlankAirport(t *testing.T) {
	f := newFixture()

	_, err := f.shifts.StartShift(context.Background(), "g1", "u1", "Alice", "   ")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Zero(t, f.backend.writes)
}

func TestShiftTracker_AdjustTotalFloorsAtZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	total, err := f.shifts.AdjustTotal(ctx, "g1", "u1", "Alice", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	total, err = f.shifts.AdjustTotal(ctx, "g1", "u1", "Alice", -50)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	total, err = f.shifts.Total(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestShiftTracker_CommunitiesAreIndependent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.shifts.StartShift(ctx, "g1", "u1", "Alice", "EGLL")
	require.NoError(t, err)
	_, err = f.shifts.StartShift(ctx, "g2", "u1", "Alice", "LFPG")
	require.NoError(t, err)

	f.clock.Advance(15 * time.Minute)
	_, err = f.shifts.EndShift(ctx, "g1", "u1")
	require.NoError(t, err)

	active, err := f.shifts.Active(ctx, "g2", "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "LFPG", active.Airport)
}
