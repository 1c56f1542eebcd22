package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{1505, "25h 5m"},
		{-3, "0h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.minutes))
	}
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "🥇", RankLabel(1))
	assert.Equal(t, "🥈", RankLabel(2))
	assert.Equal(t, "🥉", RankLabel(3))
	assert.Equal(t, "4.", RankLabel(4))
	assert.Equal(t, "10.", RankLabel(10))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "a", Truncate("abc", 1))
}

func TestBulletList(t *testing.T) {
	assert.Equal(t, "No attendees yet", BulletList(nil, "No attendees yet"))
	assert.Equal(t, "• a\n• b", BulletList([]string{"a", "b"}, ""))
}

func TestErrorTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", crew.Validation("Airport is required."), UserError},
		{"conflict", crew.ErrAlreadyActive, BusinessLogicError},
		{"not configured", crew.ErrNotConfigured, NotFoundError},
		{"external", crew.External("Operation role not found.", nil), NotFoundError},
		{"unknown", errors.New("boom"), SystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorTypeOf(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, getErrorPrefix(got))
		})
	}
}
