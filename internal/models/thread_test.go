package models

import (
	"database/sql"
	"testing"
	"time"
)

func TestPollHasEnded(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endsAt   sql.NullTime
		expected bool
	}{
		{
			name:     "no end time never ends",
			endsAt:   sql.NullTime{},
			expected: false,
		},
		{
			name:     "before the end",
			endsAt:   sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			expected: false,
		},
		{
			name:     "exactly at the end",
			endsAt:   sql.NullTime{Time: now, Valid: true},
			expected: true,
		},
		{
			name:     "after the end",
			endsAt:   sql.NullTime{Time: now.Add(-time.Minute), Valid: true},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thread := &Thread{PostType: PostTypePoll, PollEndsAt: tt.endsAt}
			if got := thread.PollHasEnded(now); got != tt.expected {
				t.Errorf("PollHasEnded = %v, expected %v", got, tt.expected)
			}
		})
	}
}
