package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuerRejectsMissingSecret(t *testing.T) {
	if _, err := NewTokenIssuer(TokenIssuerConfig{}); !errors.Is(err, ErrMissingSigningSecret) {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestIssueEmbedsSubjectAndProfileClaims(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0).UTC()
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte("super-secret"),
		Clock:         func() time.Time { return issuedAt },
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	tokenString, expiresIn, err := issuer.Issue(42, "sincere@april.biz", "Leanne Graham")
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}
	if expiresIn != 604800 {
		t.Fatalf("expected 7-day lifetime in seconds, got %d", expiresIn)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("super-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return issuedAt })); err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}

	if claims.Subject != "42" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Email != "sincere@april.biz" {
		t.Fatalf("unexpected email claim %q", claims.Email)
	}
	if claims.Name != "Leanne Graham" {
		t.Fatalf("unexpected name claim %q", claims.Name)
	}
	if claims.IssuedAt == nil || !claims.IssuedAt.Time.Equal(issuedAt) {
		t.Fatalf("unexpected issued-at %v", claims.IssuedAt)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(issuedAt.Add(604800*time.Second)) {
		t.Fatalf("expiry must be exactly issued-at plus 604800s, got %v", claims.ExpiresAt)
	}
}

func TestValidateReturnsClaims(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenIssuerConfig{SigningSecret: []byte("super-secret")})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	tokenString, _, err := issuer.Issue(7, "user@example.com", "User Seven")
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	claims, err := issuer.Validate(tokenString)
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("unexpected subject parse error: %v", err)
	}
	if id != 7 {
		t.Fatalf("unexpected user id %d", id)
	}
}

func TestValidateDistinguishesExpiryFromBadSignature(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte("super-secret"),
		Clock:         func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	tokenString, _, err := issuer.Issue(1, "user@example.com", "User One")
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	now = now.Add(8 * 24 * time.Hour)
	if _, err := issuer.Validate(tokenString); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}

	otherIssuer, err := NewTokenIssuer(TokenIssuerConfig{SigningSecret: []byte("different-secret")})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	_, err = otherIssuer.Validate(tokenString)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if errors.Is(err, ErrTokenExpired) {
		t.Fatalf("signature mismatch must not read as expiry")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenIssuerConfig{SigningSecret: []byte("super-secret")})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	if _, err := issuer.Validate("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}
