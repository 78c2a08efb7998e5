package util

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	issued := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	manager := NewJWTManager("top-secret", 24*time.Hour)
	manager.now = func() time.Time { return issued }

	token, expiresAt, err := manager.Generate("admin", "admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !expiresAt.Equal(issued.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry 24h after issue, got %s", expiresAt)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Username != "admin" || claims.Role != "admin" || claims.Issuer != sessionIssuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	issued := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	manager := NewJWTManager("secret", time.Hour)
	manager.now = func() time.Time { return issued }
	token, _, err := manager.Generate("admin", "admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	manager.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := manager.Parse(token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	manager := NewJWTManager("two", time.Minute)

	foreign, _, err := NewJWTManager("one", time.Minute).Generate("admin", "admin")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	otherIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("two"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer: sessionIssuer,
	}).SignedString([]byte("two"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, token := range map[string]string{
		"foreign secret": foreign,
		"other issuer":   otherIssuer,
		"no expiry":      noExpiry,
		"garbage":        "not-a-token",
	} {
		if _, err := manager.Parse(token); !errors.Is(err, ErrSessionInvalid) {
			t.Fatalf("%s: expected ErrSessionInvalid, got %v", name, err)
		}
	}
}
