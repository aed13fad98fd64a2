package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$12$") {
		t.Errorf("expected bcrypt cost 12 hash, got %q", hash[:7])
	}

	if !CheckPassword(hash, "password123") {
		t.Error("correct password did not verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("wrong password verified")
	}
}
