package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	tokens := NewTokens("secret")

	token, err := tokens.Issue(time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != "widget" {
		t.Errorf("unexpected subject %q", claims.Subject)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _ := NewTokens("secret").Issue(0)
	if _, err := NewTokens("other").Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	tokens := NewTokens("secret")
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ := tokens.Issue(time.Hour)

	tokens.now = time.Now
	if _, err := tokens.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := NewTokens("secret").Validate("not-a-token"); err == nil {
		t.Error("expected error")
	}
}
