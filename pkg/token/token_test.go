package token

import (
	"testing"
	"time"

	"staywise/pkg/model"
)

func TestSignAndParse(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	signed, err := codec.Sign("64b1f0a9c2d3e4f5a6b7c8d9", "admin@example.com", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := codec.Parse(signed)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID() != "64b1f0a9c2d3e4f5a6b7c8d9" {
		t.Errorf("expected subject to round-trip, got %q", claims.UserID())
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("expected email to round-trip, got %q", claims.Email)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	signed, err := NewCodec("secret-a", time.Hour).Sign("64b1f0a9c2d3e4f5a6b7c8d9", "u@example.com", model.RoleUser)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := NewCodec("secret-b", time.Hour).Parse(signed); err == nil {
		t.Errorf("expected parse to fail with a different secret")
	}
}

func TestParse_Expired(t *testing.T) {
	signed, err := NewCodec("test-secret", -time.Minute).Sign("64b1f0a9c2d3e4f5a6b7c8d9", "u@example.com", model.RoleUser)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := NewCodec("test-secret", -time.Minute).Parse(signed); err == nil {
		t.Errorf("expected parse to reject an expired token")
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := NewCodec("test-secret", time.Hour).Parse("not.a.token"); err == nil {
		t.Errorf("expected parse to reject a malformed token")
	}
}
