package auth

import (
	"testing"
	"time"

	"github.com/assetdesk/assetdesk-backend/pkg/config"
	"github.com/assetdesk/assetdesk-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "assetdesk-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAdminToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	signed, err := MintAdminToken(cfg, now, "USR-001", enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAdminToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "USR-001" {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestMintAdminTokenRejectsInvalidRole(t *testing.T) {
	if _, err := MintAdminToken(testJWTConfig(), time.Now(), "USR-001", "ruler"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAdminTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAdminToken(cfg, time.Now(), "USR-001", enums.UserRoleStaff)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAdminToken(other, signed); err == nil {
		t.Fatal("expected signature validation failure")
	}
}
