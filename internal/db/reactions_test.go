package db

import (
	"reflect"
	"testing"

	"github.com/createconomy/createconomy/internal/models"
)

func TestPlanToggle(t *testing.T) {
	tests := []struct {
		name     string
		held     []string
		kind     string
		expected togglePlan
	}{
		{
			name:     "first upvote inserts",
			held:     nil,
			kind:     models.ReactionUpvote,
			expected: togglePlan{Action: ToggleVoted, Insert: true},
		},
		{
			name:     "repeated upvote removes it",
			held:     []string{models.ReactionUpvote},
			kind:     models.ReactionUpvote,
			expected: togglePlan{Action: ToggleRemoved, Clear: []string{models.ReactionUpvote}},
		},
		{
			name: "upvote clears an existing downvote",
			held: []string{models.ReactionDownvote},
			kind: models.ReactionUpvote,
			expected: togglePlan{
				Action: ToggleVoted,
				Clear:  []string{models.ReactionDownvote},
				Insert: true,
			},
		},
		{
			name: "downvote clears an existing upvote",
			held: []string{models.ReactionUpvote},
			kind: models.ReactionDownvote,
			expected: togglePlan{
				Action: ToggleVoted,
				Clear:  []string{models.ReactionUpvote},
				Insert: true,
			},
		},
		{
			name:     "bookmark leaves votes alone",
			held:     []string{models.ReactionUpvote},
			kind:     models.ReactionBookmark,
			expected: togglePlan{Action: ToggleVoted, Insert: true},
		},
		{
			name:     "repeated bookmark removes it",
			held:     []string{models.ReactionUpvote, models.ReactionBookmark},
			kind:     models.ReactionBookmark,
			expected: togglePlan{Action: ToggleRemoved, Clear: []string{models.ReactionBookmark}},
		},
		{
			name: "downvote on a stale up and down pair removes the downvote",
			held: []string{models.ReactionUpvote, models.ReactionDownvote},
			kind: models.ReactionDownvote,
			expected: togglePlan{
				Action: ToggleRemoved,
				Clear:  []string{models.ReactionDownvote},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planToggle(tt.held, tt.kind)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("planToggle(%v, %q) = %+v, expected %+v", tt.held, tt.kind, got, tt.expected)
			}
		})
	}
}

// A voted plan never leaves the requested kind and its conflicting kind
// both standing, whatever state the user starts in.
func TestPlanToggleExclusivity(t *testing.T) {
	states := [][]string{
		nil,
		{models.ReactionUpvote},
		{models.ReactionDownvote},
		{models.ReactionBookmark},
		{models.ReactionUpvote, models.ReactionBookmark},
		{models.ReactionDownvote, models.ReactionBookmark},
	}

	for _, held := range states {
		for _, kind := range []string{models.ReactionUpvote, models.ReactionDownvote} {
			plan := planToggle(held, kind)
			if plan.Action != ToggleVoted {
				continue
			}
			conflict := models.ConflictingKind(kind)
			holds := false
			for _, h := range held {
				if h == conflict {
					holds = true
				}
			}
			cleared := false
			for _, c := range plan.Clear {
				if c == conflict {
					cleared = true
				}
			}
			if holds && !cleared {
				t.Errorf("planToggle(%v, %q) inserts without clearing %q", held, kind, conflict)
			}
		}
	}
}
