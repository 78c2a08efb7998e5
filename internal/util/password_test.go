package util

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyArgon2id(t *testing.T) {
	encoded, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding %s", encoded)
	}
	ok, err := VerifyPasswordHash("s3cret-pass", encoded)
	if err != nil || !ok {
		t.Fatalf("expected password verification to succeed, got %v %v", ok, err)
	}
	ok, err = VerifyPasswordHash("wrong-pass", encoded)
	if err != nil || ok {
		t.Fatalf("expected password verification to fail, got %v %v", ok, err)
	}
}

func TestVerifyBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if ok, err := VerifyPasswordHash("admin123", string(hash)); err != nil || !ok {
		t.Fatalf("expected bcrypt match, got %v %v", ok, err)
	}
	if ok, _ := VerifyPasswordHash("nope", string(hash)); ok {
		t.Fatal("expected bcrypt mismatch")
	}
}

func TestVerifyUnknownFormat(t *testing.T) {
	if _, err := VerifyPasswordHash("x", "plain"); !errors.Is(err, ErrUnknownHashFormat) {
		t.Fatalf("expected ErrUnknownHashFormat, got %v", err)
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestEqualConstantTime(t *testing.T) {
	if !EqualConstantTime("token", "token") || EqualConstantTime("token", "tokem") || EqualConstantTime("a", "ab") {
		t.Fatal("unexpected comparison result")
	}
}
