package polls

import (
	"testing"
)

func TestPercentages(t *testing.T) {
	tests := []struct {
		name     string
		counts   []int64
		total    int64
		expected []int
	}{
		{
			name:     "no votes",
			counts:   []int64{0, 0, 0},
			total:    0,
			expected: []int{0, 0, 0},
		},
		{
			name:     "even split",
			counts:   []int64{5, 5},
			total:    10,
			expected: []int{50, 50},
		},
		{
			name:     "all one option",
			counts:   []int64{7, 0},
			total:    7,
			expected: []int{100, 0},
		},
		{
			name:     "rounding",
			counts:   []int64{1, 1, 1},
			total:    3,
			expected: []int{33, 33, 33},
		},
		{
			name:     "uneven rounding",
			counts:   []int64{2, 1},
			total:    3,
			expected: []int{67, 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentages(tt.counts, tt.total)
			if len(got) != len(tt.expected) {
				t.Fatalf("Percentages() returned %d entries, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Percentages()[%d] = %d, want %d", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestPercentagesSumNearHundred(t *testing.T) {
	counts := []int64{3, 4, 5, 1}
	var total int64
	for _, c := range counts {
		total += c
	}

	sum := 0
	for _, p := range Percentages(counts, total) {
		sum += p
	}

	// Rounding can push the sum slightly off 100
	if sum < 98 || sum > 102 {
		t.Errorf("percentage sum = %d, want within [98, 102]", sum)
	}
}
