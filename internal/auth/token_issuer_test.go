package auth

import (
	"testing"
	"time"
)

func TestTokenIssuerRoundTripsThroughValidator(t *testing.T) {
	clockNow := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSessionSigningSecret),
		Issuer:        testSessionIssuer,
		TokenTTL:      30 * time.Minute,
		Clock: func() time.Time {
			return clockNow
		},
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	tokenString, expiresIn, err := issuer.Issue(SessionIdentity{
		UserID:      "user-321",
		Email:       "ada@example.com",
		DisplayName: " Ada Lovelace ",
	})
	if err != nil {
		t.Fatalf("expected successful issuance: %v", err)
	}
	if expiresIn != int64((30 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expiry seconds %d", expiresIn)
	}

	claims, err := newTestValidator(t, clockNow).ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.Subject != "user-321" || claims.UserID != "user-321" {
		t.Fatalf("unexpected subject %s / %s", claims.Subject, claims.UserID)
	}
	if claims.UserDisplayName != "Ada Lovelace" {
		t.Fatalf("expected trimmed display name, got %q", claims.UserDisplayName)
	}
}

func TestTokenIssuerRejectsMissingSecret(t *testing.T) {
	if _, err := NewTokenIssuer(TokenIssuerConfig{Issuer: testSessionIssuer}); err == nil {
		t.Fatalf("expected constructor error for missing secret")
	}
}

func TestTokenIssuerRejectsEmptySubject(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte(testSessionSigningSecret),
		Issuer:        testSessionIssuer,
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	if _, _, err := issuer.Issue(SessionIdentity{UserID: "  "}); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
