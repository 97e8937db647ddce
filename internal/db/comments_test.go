package db

import (
	"strings"
	"testing"

	"github.com/createconomy/createconomy/internal/models"
)

func TestSortOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		sort     string
		contains string
	}{
		{
			name:     "new orders by creation time",
			sort:     models.SortNew,
			contains: "created_at DESC",
		},
		{
			name:     "top orders by score",
			sort:     models.SortTop,
			contains: "score DESC",
		},
		{
			name:     "controversial uses up/down balance",
			sort:     models.SortControversial,
			contains: "up_count + down_count",
		},
		{
			name:     "best damps score by age",
			sort:     models.SortBest,
			contains: "45000",
		},
		{
			name:     "unknown sort falls back to best",
			sort:     "bogus",
			contains: "45000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := sortOrderClause(tt.sort)
			if !strings.Contains(clause, tt.contains) {
				t.Errorf("sortOrderClause(%q) = %q, want substring %q", tt.sort, clause, tt.contains)
			}
			// Every clause needs the id tiebreaker for stable pagination
			if !strings.Contains(clause, "id DESC") {
				t.Errorf("sortOrderClause(%q) missing id tiebreaker", tt.sort)
			}
		})
	}
}
