package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword(hash, "correct horse battery") {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword(hash, "wrong password!") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for password under 8 characters")
	}
}

func TestIssueAndParseToken(t *testing.T) {
	secret := "test-secret"

	token, err := IssueToken(secret, "session-uuid-1", 42, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if claims.SessionID != "session-uuid-1" {
		t.Errorf("expected session ID 'session-uuid-1', got: %s", claims.SessionID)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user ID 42, got: %d", claims.UserID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret-a", "sid", 1, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := IssueToken("secret", "sid", 1, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := ParseToken("secret", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestIssueTokenEmptySecret(t *testing.T) {
	if _, err := IssueToken("", "sid", 1, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
