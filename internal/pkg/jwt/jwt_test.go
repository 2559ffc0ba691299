package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", "secret", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := ValidateSessionToken(token, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SessionID != "sid-1" {
		t.Fatalf("expected sid-1, got %s", claims.SessionID)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, _ := GenerateSessionToken("sid-1", "secret", time.Now().Add(time.Hour))
	if _, err := ValidateSessionToken(token, "other"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, _ := GenerateSessionToken("sid-1", "secret", time.Now().Add(-time.Minute))
	if _, err := ValidateSessionToken(token, "secret"); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	if _, err := ValidateSessionToken("not.a.token", "secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
