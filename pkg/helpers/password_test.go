package helpers

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_DefaultCost(t *testing.T) {
	if h := NewPasswordHasher(0); h.Cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.Cost)
	}
}

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash should not equal plain password")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("expected bcrypt format, got %q", hash)
	}
	if !h.Compare(hash, "secret1") {
		t.Fatal("correct password should verify")
	}
	if h.Compare(hash, "secret2") {
		t.Fatal("wrong password should not verify")
	}
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	a, _ := h.Hash("same-password")
	b, _ := h.Hash("same-password")
	if a == b {
		t.Fatal("same password should produce different hashes")
	}
	if !h.Compare(a, "same-password") || !h.Compare(b, "same-password") {
		t.Fatal("both hashes should verify")
	}
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	for _, bad := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Compare(bad, "secret1") {
			t.Errorf("malformed hash %q should not verify", bad)
		}
	}
}
