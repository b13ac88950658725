package auth

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	home := uint(3)
	token, err := GenerateToken(7, "commander_b", "BASE_COMMANDER", &home)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user id = %d, want 7", claims.UserID)
	}
	if claims.Username != "commander_b" {
		t.Errorf("username = %q", claims.Username)
	}
	if claims.Role != "BASE_COMMANDER" {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.HomeLocationID == nil || *claims.HomeLocationID != 3 {
		t.Errorf("home location = %v, want 3", claims.HomeLocationID)
	}
}

func TestTokenWithoutHomeLocation(t *testing.T) {
	token, err := GenerateToken(1, "admin", "ADMIN", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.HomeLocationID != nil {
		t.Errorf("home location = %v, want nil", claims.HomeLocationID)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(1, "admin", "ADMIN", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	if _, err := ValidateToken(tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}
