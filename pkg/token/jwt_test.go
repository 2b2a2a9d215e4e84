package token

import (
	"strings"
	"testing"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", 1, 7)

	tokenString, err := manager.GenerateToken(42, "wajib@pajak.id")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := manager.VerifyToken(tokenString)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "wajib@pajak.id" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", 1, 7)
	other := NewJWTManager("other-secret", 1, 7)

	tokenString, err := manager.GenerateToken(1, "wajib@pajak.id")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := other.VerifyToken(tokenString); err == nil {
		t.Fatalf("expected verification with wrong secret to fail")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	// Zero-hour lifetime puts the expiry in the past immediately.
	manager := NewJWTManager("test-secret", 0, 0)

	tokenString, err := manager.GenerateToken(1, "wajib@pajak.id")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := manager.VerifyToken(tokenString); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 1, 7)

	if _, err := manager.VerifyToken("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
	if _, err := manager.VerifyToken(strings.Repeat("a", 64)); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}
