package utils

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret-pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "secret-pw" {
		t.Fatal("hash must not equal the raw password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}

	// Hashing is salted, two hashes of the same input must differ
	second, err := HashPassword("secret-pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == second {
		t.Error("two hashes of the same password should not be equal")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	t.Run("correct password", func(t *testing.T) {
		if !VerifyPassword(hash, "secret-pw") {
			t.Error("expected verification to succeed")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if VerifyPassword(hash, "wrong-pw") {
			t.Error("expected verification to fail")
		}
	})

	t.Run("garbage hash", func(t *testing.T) {
		if VerifyPassword("not-a-hash", "secret-pw") {
			t.Error("expected verification to fail for invalid hash")
		}
	})
}
