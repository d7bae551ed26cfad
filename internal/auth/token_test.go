package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManagerIssueAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret")

	signed, claims, err := tm.Issue(42, "priya", "Priya Sharma", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if claims.ID == "" {
		t.Error("Issued claims should carry a token id")
	}
	if got := time.Until(claims.ExpiresAt.Time); got < 71*time.Hour || got > 73*time.Hour {
		t.Errorf("Expected roughly 72h lifetime, got %v", got)
	}

	parsed, err := tm.Parse(signed)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.UserID != 42 {
		t.Errorf("Expected user id 42, got %d", parsed.UserID)
	}
	if parsed.Username != "priya" {
		t.Errorf("Expected username priya, got %s", parsed.Username)
	}
	if parsed.IsAdmin {
		t.Error("Expected a non-admin token")
	}
	if parsed.ID != claims.ID {
		t.Errorf("Parsed token id %s does not match issued id %s", parsed.ID, claims.ID)
	}
}

func TestTokenManagerRejectsWrongSecret(t *testing.T) {
	signed, _, err := NewTokenManager("secret-a").Issue(1, "u", "U", false)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewTokenManager("secret-b").Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenManagerRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	signed, _, err := tm.Issue(1, "u", "U", true)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tampered := signed[:len(signed)-2] + "xx"
	if _, err := tm.Parse(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenManagerRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")
	if _, err := tm.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
