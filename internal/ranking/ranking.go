// Package ranking computes sort scores for threads and comments.
//
// "best" uses the classic hot formula (score magnitude damped by age) and
// "controversial" ranks near-even up/down splits higher. Both are the
// widely documented Reddit formulas, adopted as placeholders until product
// supplies its own weights.
package ranking

import (
	"math"
	"time"
)

// hotEpoch anchors the age component of the hot score
var hotEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Hot returns the hot score for a target with the given up/down counts
// and creation time. Newer items with the same net score rank higher.
func Hot(ups, downs int64, createdAt time.Time) float64 {
	score := ups - downs

	order := math.Log10(math.Max(math.Abs(float64(score)), 1))

	var sign float64
	switch {
	case score > 0:
		sign = 1
	case score < 0:
		sign = -1
	}

	seconds := createdAt.Sub(hotEpoch).Seconds()
	return round7(sign*order + seconds/45000)
}

// Controversial returns the controversy score. Items with no votes on one
// side score zero; the score grows with total volume and peaks when the
// split is even.
func Controversial(ups, downs int64) float64 {
	if ups <= 0 || downs <= 0 {
		return 0
	}

	magnitude := float64(ups + downs)
	var balance float64
	if ups > downs {
		balance = float64(downs) / float64(ups)
	} else {
		balance = float64(ups) / float64(downs)
	}

	return math.Pow(magnitude, balance)
}

func round7(v float64) float64 {
	return math.Round(v*1e7) / 1e7
}
