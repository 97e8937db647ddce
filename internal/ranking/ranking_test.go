package ranking

import (
	"testing"
	"time"
)

func TestHotNewerWins(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	if Hot(10, 0, newer) <= Hot(10, 0, older) {
		t.Error("newer item with equal score should rank higher")
	}
}

func TestHotScoreWins(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if Hot(100, 0, at) <= Hot(1, 0, at) {
		t.Error("higher score at equal age should rank higher")
	}
}

func TestHotNegativeScore(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if Hot(0, 50, at) >= Hot(0, 0, at) {
		t.Error("downvoted item should rank below a zero-score item of equal age")
	}
}

func TestControversial(t *testing.T) {
	tests := []struct {
		name string
		ups  int64
		downs int64
		zero bool
	}{
		{name: "no votes", ups: 0, downs: 0, zero: true},
		{name: "only upvotes", ups: 50, downs: 0, zero: true},
		{name: "only downvotes", ups: 0, downs: 50, zero: true},
		{name: "even split", ups: 25, downs: 25, zero: false},
		{name: "lopsided", ups: 100, downs: 1, zero: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Controversial(tt.ups, tt.downs)
			if tt.zero && got != 0 {
				t.Errorf("Controversial(%d, %d) = %v, want 0", tt.ups, tt.downs, got)
			}
			if !tt.zero && got <= 0 {
				t.Errorf("Controversial(%d, %d) = %v, want > 0", tt.ups, tt.downs, got)
			}
		})
	}
}

func TestControversialEvenSplitBeatsLopsided(t *testing.T) {
	even := Controversial(50, 50)
	lopsided := Controversial(99, 1)

	if even <= lopsided {
		t.Errorf("even split (%v) should outrank lopsided (%v) at equal volume", even, lopsided)
	}
}

func TestControversialVolumeMatters(t *testing.T) {
	big := Controversial(500, 500)
	small := Controversial(5, 5)

	if big <= small {
		t.Errorf("higher volume even split (%v) should outrank lower volume (%v)", big, small)
	}
}
