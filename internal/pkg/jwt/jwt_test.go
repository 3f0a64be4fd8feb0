package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	token, err := NewService("one", time.Hour).GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := NewService("two", time.Hour).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("secret", -time.Minute)
	token, err := svc.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := NewService("secret", time.Hour).ValidateToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
