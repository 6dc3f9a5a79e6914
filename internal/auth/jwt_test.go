package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionGenerateValidate(t *testing.T) {
	manager := NewSessionManager("secret", time.Hour, "homies")
	token, err := manager.Generate("user-1", "alex")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Subject != "user-1" || claims.Username != "alex" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestSessionGenerateInvalid(t *testing.T) {
	manager := NewSessionManager("secret", time.Hour, "homies")
	if _, err := manager.Generate("", "alex"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestSessionValidateMissing(t *testing.T) {
	manager := NewSessionManager("secret", time.Hour, "homies")
	if _, err := manager.Validate(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestSessionValidateWrongSecret(t *testing.T) {
	manager := NewSessionManager("secret", time.Hour, "homies")
	token, err := manager.Generate("user-1", "alex")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	other := NewSessionManager("different", time.Hour, "homies")
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestSessionValidateExpired(t *testing.T) {
	manager := NewSessionManager("secret", -time.Minute, "homies")
	token, err := manager.Generate("user-1", "alex")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error for expired token, got %v", err)
	}
}

func TestTokenFromHeader(t *testing.T) {
	if _, err := TokenFromHeader("nope"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if token, err := TokenFromHeader("Bearer token"); err != nil || token != "token" {
		t.Fatalf("expected token, got %s err %v", token, err)
	}
}

func TestPasswordHashCheck(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !CheckPassword(hash, "hunter2hunter2") {
		t.Fatal("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatched password to fail")
	}
}
