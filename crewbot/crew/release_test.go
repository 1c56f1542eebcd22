package crew_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/groundcrew/crewbot/crewbot/crew"
	"github.com/groundcrew/crewbot/crewbot/crew/mock"
	"github.com/groundcrew/crewbot/crewbot/storage"
)

func newTracker(t *testing.T) (*crew.OperationTracker, *mock.MockReleaser) {
	releaser := mock.NewMockReleaser(gomock.NewController(t))
	store := crew.NewStore(storage.NewMemory())
	return crew.NewOperationTracker(store, crew.SystemClock{}, releaser), releaser
}

func TestOperationTracker_StopReleasesResources(t *testing.T) {
	tracker, releaser := newTracker(t)
	ctx := context.Background()

	op, err := tracker.Start(ctx, "g1", crew.OperationSpec{Airport: "EGLL", Time: "18:00", Date: "today"})
	require.NoError(t, err)
	_, err = tracker.AttachRole(ctx, "g1", op.ID, "role-1")
	require.NoError(t, err)

	releaser.EXPECT().
		ReleaseOperation(gomock.Any(), gomock.Cond(func(x any) bool {
			got, ok := x.(crew.Operation)
			return ok && got.ID == op.ID && got.RoleID == "role-1"
		})).
		Return(nil)

	stopped, err := tracker.Stop(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, op.ID, stopped.ID)
}

func TestOperationTracker_StopSurvivesReleaseFailure(t *testing.T) {
	tracker, releaser := newTracker(t)
	ctx := context.Background()

	_, err := tracker.Start(ctx, "g1", crew.OperationSpec{Airport: "EGLL", Time: "18:00", Date: "today"})
	require.NoError(t, err)

	releaser.EXPECT().
		ReleaseOperation(gomock.Any(), gomock.Any()).
		Return(errors.New("role already deleted"))

	_, err = tracker.Stop(ctx, "g1")
	require.NoError(t, err)

	active, err := tracker.Active(ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestOperationTracker_NoReleaseWhenNothingStopped(t *testing.T) {
	tracker, _ := newTracker(t)

	_, err := tracker.Stop(context.Background(), "g1")
	require.ErrorIs(t, err, crew.ErrNoActiveOperation)
}
