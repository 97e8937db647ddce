package db

import (
	"testing"
)

func TestPlanVote(t *testing.T) {
	tests := []struct {
		name        string
		held        []int
		optionIndex int
		multiSelect bool
		expected    votePlan
	}{
		{
			name:        "first vote inserts",
			held:        nil,
			optionIndex: 0,
			expected:    votePlan{Action: ToggleVoted, Insert: true},
		},
		{
			name:        "voting the selected option removes it",
			held:        []int{1},
			optionIndex: 1,
			expected:    votePlan{Action: ToggleRemoved, ClearAll: true},
		},
		{
			name:        "single select replaces a prior vote",
			held:        []int{0},
			optionIndex: 2,
			expected:    votePlan{Action: ToggleVoted, ClearAll: true, Insert: true},
		},
		{
			name:        "multi select adds without clearing",
			held:        []int{0},
			optionIndex: 2,
			multiSelect: true,
			expected:    votePlan{Action: ToggleVoted, Insert: true},
		},
		{
			name:        "multi select removes only the toggled option",
			held:        []int{0, 2},
			optionIndex: 2,
			multiSelect: true,
			expected:    votePlan{Action: ToggleRemoved},
		},
		{
			name:        "single select with stale double vote clears everything",
			held:        []int{0, 1},
			optionIndex: 2,
			expected:    votePlan{Action: ToggleVoted, ClearAll: true, Insert: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planVote(tt.held, tt.optionIndex, tt.multiSelect)
			if got != tt.expected {
				t.Errorf("planVote(%v, %d, %v) = %+v, expected %+v",
					tt.held, tt.optionIndex, tt.multiSelect, got, tt.expected)
			}
		})
	}
}

// A single-select plan never ends with the user holding more than one
// option: every insert on a non-empty state clears all prior votes.
func TestPlanVoteSingleSelectInvariant(t *testing.T) {
	states := [][]int{nil, {0}, {1}, {0, 1}, {2}}

	for _, held := range states {
		for option := 0; option < 3; option++ {
			plan := planVote(held, option, false)
			if plan.Insert && len(held) > 0 && !plan.ClearAll {
				t.Errorf("planVote(%v, %d, false) inserts without clearing prior votes", held, option)
			}
		}
	}
}
