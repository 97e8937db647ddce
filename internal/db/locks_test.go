package db

import "testing"

func TestAdvisoryKey(t *testing.T) {
	if advisoryKey("reaction:thread", 42, 7) != advisoryKey("reaction:thread", 42, 7) {
		t.Error("key is not stable for identical inputs")
	}

	base := advisoryKey("reaction:thread", 42, 7)
	distinct := []int64{
		advisoryKey("reaction:comment", 42, 7),
		advisoryKey("pollvote", 42, 7),
		advisoryKey("reaction:thread", 7, 42),
		advisoryKey("reaction:thread", 42, 8),
		advisoryKey("reaction:thread", 43, 7),
	}
	for i, key := range distinct {
		if key == base {
			t.Errorf("case %d: expected a different key than base %d", i, base)
		}
	}
}
