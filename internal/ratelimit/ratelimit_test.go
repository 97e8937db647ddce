package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != nil {
			t.Fatalf("call %d should be allowed, got: %v", i+1, err)
		}
	}
}

func TestAllowOverLimit(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != nil {
			t.Fatalf("call %d should be allowed, got: %v", i+1, err)
		}
	}

	// Fourth call within the hour is rejected. Callers distinguish the
	// over-limit case with errors.Is, so the sentinel must survive.
	err := l.Allow(ctx, "seller_request", 1, 3, time.Hour)
	if err != ErrLimited {
		t.Errorf("fourth call should return ErrLimited, got: %v", err)
	}
	if !errors.Is(err, ErrLimited) {
		t.Error("rejection must match ErrLimited with errors.Is")
	}
}

func TestWindowReset(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != nil {
			t.Fatalf("call %d should be allowed, got: %v", i+1, err)
		}
	}
	if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != ErrLimited {
		t.Fatalf("fourth call should return ErrLimited, got: %v", err)
	}

	// Same call succeeds on the next hour boundary
	current = current.Add(time.Hour)
	if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != nil {
		t.Errorf("call in next window should be allowed, got: %v", err)
	}
}

func TestUsersCountedSeparately(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != nil {
			t.Fatalf("user 1 call %d should be allowed, got: %v", i+1, err)
		}
	}

	if err := l.Allow(ctx, "seller_request", 2, 3, time.Hour); err != nil {
		t.Errorf("user 2 first call should be allowed, got: %v", err)
	}
}

func TestActionsCountedSeparately(t *testing.T) {
	l := New(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Allow(ctx, "seller_request", 1, 3, time.Hour); err != nil {
			t.Fatalf("call %d should be allowed, got: %v", i+1, err)
		}
	}

	if err := l.Allow(ctx, "report", 1, 10, time.Hour); err != nil {
		t.Errorf("different action should have its own window, got: %v", err)
	}
}
