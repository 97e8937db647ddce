package rpc

import (
	"strings"
	"testing"
)

func TestErrorMessageCarriesCode(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code string
	}{
		{name: "duplicate", err: Duplicate("report already pending"), code: "DUPLICATE"},
		{name: "rate limited", err: RateLimited("too many requests"), code: "RATE_LIMITED"},
		{name: "poll ended", err: PollEnded(), code: "POLL_ENDED"},
		{name: "thread locked", err: ThreadLocked(), code: "THREAD_LOCKED"},
		{name: "unauthenticated", err: Unauthenticated(), code: "UNAUTHENTICATED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clients match on substrings of the message
			if !strings.Contains(tt.err.Error(), tt.code) {
				t.Errorf("Error() = %q, should contain %q", tt.err.Error(), tt.code)
			}
		})
	}
}

func TestJSONRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{CodeUnauthenticated, -32001},
		{CodeForbidden, -32002},
		{CodeRateLimited, -32003},
		{CodeNotFound, -32004},
		{CodeDuplicate, -32005},
		{CodePollEnded, -32006},
		{CodeThreadLocked, -32007},
		{CodeValidation, ErrInvalidParams},
		{"SOMETHING_ELSE", ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := jsonrpcCode(tt.code); got != tt.expected {
				t.Errorf("jsonrpcCode(%q) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func TestUnauthenticatedMessage(t *testing.T) {
	if !strings.Contains(Unauthenticated().Error(), "must sign in") {
		t.Error("unauthenticated error should tell the user to sign in")
	}
}
