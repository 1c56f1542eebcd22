package crew

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// OperationSpec is what an admin supplies to start an operation.
type OperationSpec struct {
	Airport     string
	Time        string
	Date        string
	Description string
	Type        string
	Capacity    *int
	CreatedBy   string
}

// Validate rejects missing fields and non-positive capacities.
func (s OperationSpec) Validate() error {
	if strings.TrimSpace(s.Airport) == "" {
		return Validation("Airport is required.")
	}
	if strings.TrimSpace(s.Time) == "" {
		return Validation("Time is required.")
	}
	if strings.TrimSpace(s.Date) == "" {
		return Validation("Date is required.")
	}
	if s.Capacity != nil && *s.Capacity < 1 {
		return Validation("Max attendees must be at least 1.")
	}
	return nil
}

// Releaser frees the platform resources created for an operation.
//
//go:generate mockgen -destination=mock/releaser.go -package=mock . Releaser
type Releaser interface {
	ReleaseOperation(ctx context.Context, op Operation) error
}

// OperationTracker manages the single active operation of each community.
type OperationTracker struct {
	store    *Store
	clock    Clock
	releaser Releaser
	newID    func() string
}

func NewOperationTracker(store *Store, clock Clock, releaser Releaser) *OperationTracker {
	return &OperationTracker{
		store:    store,
		clock:    clock,
		releaser: releaser,
		newID:    uuid.NewString,
	}
}

// Start creates the community's operation.
func (t *OperationTracker) Start(ctx context.Context, communityID string, spec OperationSpec) (Operation, error) {
	if err := spec.Validate(); err != nil {
		return Operation{}, err
	}

	var created Operation
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		if c.Operation != nil {
			return ErrOperationAlreadyActive
		}
		op := &Operation{
			ID:          t.newID(),
			CommunityID: communityID,
			Airport:     strings.TrimSpace(spec.Airport),
			Time:        strings.TrimSpace(spec.Time),
			Date:        strings.TrimSpace(spec.Date),
			Description: strings.TrimSpace(spec.Description),
			Type:        strings.TrimSpace(spec.Type),
			CreatedBy:   spec.CreatedBy,
			CreatedAt:   t.clock.Now(),
			Attendees:   make(map[string]Attendee),
		}
		if spec.Capacity != nil {
			capacity := *spec.Capacity
			op.Capacity = &capacity
		}
		c.Operation = op
		created = *op.clone()
		return nil
	})
	return created, err
}

// Join adds memberID to the roster of operationID. An empty operationID
// targets whatever operation is active.
func (t *OperationTracker) Join(ctx context.Context, communityID, operationID, memberID, displayName string) (Operation, error) {
	var joined Operation
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		op := c.Operation
		if op == nil || (operationID != "" && op.ID != operationID) {
			return ErrNoActiveOperation
		}
		if _, ok := op.Attendees[memberID]; ok {
			return ErrAlreadyJoined
		}
		if op.Full() {
			return ErrAtCapacity
		}
		op.Attendees[memberID] = Attendee{
			DisplayName: displayName,
			JoinedAt:    t.clock.Now(),
		}
		c.RememberName(memberID, displayName)
		joined = *op.clone()
		return nil
	})
	return joined, err
}

// Stop removes the community's operation and asks the releaser to free
// its platform resources. A failed release is logged, not returned: the
// operation is already gone.
func (t *OperationTracker) Stop(ctx context.Context, communityID string) (Operation, error) {
	var stopped Operation
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		if c.Operation == nil {
			return ErrNoActiveOperation
		}
		stopped = *c.Operation.clone()
		c.Operation = nil
		return nil
	})
	if err != nil {
		return Operation{}, err
	}

	if t.releaser != nil {
		if err := t.releaser.ReleaseOperation(ctx, stopped); err != nil {
			slog.Warn("Failed to release operation resources",
				slog.String("type", "store"),
				slog.String("guild_id", communityID),
				slog.String("operation_id", stopped.ID),
				slog.Any("error", err))
		}
	}
	return stopped, nil
}

// Active returns the community's operation, or nil.
func (t *OperationTracker) Active(ctx context.Context, communityID string) (*Operation, error) {
	c, err := t.store.Snapshot(ctx, communityID)
	if err != nil {
		return nil, err
	}
	return c.Operation, nil
}

// AttachAnnouncement records where the operation was announced.
func (t *OperationTracker) AttachAnnouncement(ctx context.Context, communityID, operationID, channelID, messageID string) error {
	return t.store.Update(ctx, communityID, func(c *Community) error {
		if c.Operation == nil || c.Operation.ID != operationID {
			return ErrNoActiveOperation
		}
		c.Operation.ChannelID = channelID
		c.Operation.MessageID = messageID
		return nil
	})
}

// AttachRole records roleID as the operation's role unless one is already
// set, and returns the role that is in effect.
func (t *OperationTracker) AttachRole(ctx context.Context, communityID, operationID, roleID string) (string, error) {
	var effective string
	err := t.store.Update(ctx, communityID, func(c *Community) error {
		if c.Operation == nil || c.Operation.ID != operationID {
			return ErrNoActiveOperation
		}
		if c.Operation.RoleID == "" {
			c.Operation.RoleID = roleID
		}
		effective = c.Operation.RoleID
		return nil
	})
	return effective, err
}
