package crew

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		kind Kind
	}{
		{
			name: "conflict",
			err:  ErrAlreadyOnBreak,
			want: "You are already on break.",
			kind: KindConflict,
		},
		{
			name: "wrapped conflict",
			err:  fmt.Errorf("join: %w", ErrAtCapacity),
			want: "This operation is at maximum capacity!",
			kind: KindConflict,
		},
		{
			name: "validation",
			err:  Validation("Max attendees must be at least 1."),
			want: "Max attendees must be at least 1.",
			kind: KindValidation,
		},
		{
			name: "persistence hides cause",
			err:  persistence(errors.New("disk full")),
			want: "Could not save your change. Nothing was updated, please try again.",
			kind: KindPersistence,
		},
		{
			name: "external",
			err:  External("The operation role no longer exists.", nil),
			want: "The operation role no longer exists. Please run /setup again.",
			kind: KindExternal,
		},
		{
			name: "not configured",
			err:  ErrNotConfigured,
			want: "This server is not configured yet. Please run /setup first.",
			kind: KindExternal,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: "Something went wrong. Please try again later.",
			kind: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}
