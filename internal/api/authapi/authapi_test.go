package authapi

import "testing"

func TestUsernamePattern(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"ada", true},
		{"ada_lovelace", true},
		{"user-42", true},
		{"a1", false},
		{"Ada", false},
		{"_leading", false},
		{"has space", false},
		{"", false},
		{"abcdefghijklmnopqrstuvwxyz0123456", false},
	}

	for _, tt := range tests {
		if got := usernameRe.MatchString(tt.username); got != tt.valid {
			t.Errorf("usernameRe.MatchString(%q) = %v, expected %v", tt.username, got, tt.valid)
		}
	}
}
