package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "vitrine-test",
	ExpirationMinutes: 15,
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	signed, err := MintAccessToken(testJWTConfig, time.Now(), AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleBuyer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessToken(testJWTConfig, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.UserRoleBuyer {
		t.Fatalf("expected buyer role, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenKeepsProvidedJTI(t *testing.T) {
	t.Parallel()

	jti := uuid.NewString()
	signed, err := MintAccessToken(testJWTConfig, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseAccessToken(testJWTConfig, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %s, got %s", jti, claims.ID)
	}
}

func TestMintAccessTokenValidatesConfig(t *testing.T) {
	t.Parallel()

	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleBuyer}

	cases := []config.JWTConfig{
		{Issuer: "x", ExpirationMinutes: 15},
		{Secret: "x", ExpirationMinutes: 15},
		{Secret: "x", Issuer: "x"},
	}
	for i, cfg := range cases {
		if _, err := MintAccessToken(cfg, time.Now(), payload); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}

	if _, err := MintAccessToken(testJWTConfig, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("superuser"),
	}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := MintAccessToken(testJWTConfig, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleBuyer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := testJWTConfig
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signed, err := MintAccessToken(testJWTConfig, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleBuyer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := testJWTConfig
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	signed, err := MintAccessToken(testJWTConfig, past, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleBuyer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseAccessToken(testJWTConfig, signed); err == nil {
		t.Fatal("expected expiry rejection")
	}

	// The refresh path still reads the claims off an expired token.
	claims, err := ParseAccessTokenAllowExpired(testJWTConfig, signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected jti on expired token")
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseAccessToken(testJWTConfig, "not.a.token"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := ParseAccessToken(testJWTConfig, strings.Repeat("a", 64)); err == nil {
		t.Fatal("expected parse error")
	}
}
