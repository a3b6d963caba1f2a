package services

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	t.Run("Valid Password", func(t *testing.T) {
		hash, err := HashPassword("Secret123!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(hash, "$") {
			t.Errorf("hash %q missing salt separator", hash)
		}
		if hash == "Secret123!" {
			t.Error("password stored in the clear")
		}
	})

	t.Run("Weak Password Rejected", func(t *testing.T) {
		for _, weak := range []string{"short", "nodigits!", "nosymbol1"} {
			if _, err := HashPassword(weak); err == nil {
				t.Errorf("HashPassword(%q) accepted a weak password", weak)
			}
		}
	})

	t.Run("Salted", func(t *testing.T) {
		h1, err := HashPassword("Secret123!")
		if err != nil {
			t.Fatal(err)
		}
		h2, err := HashPassword("Secret123!")
		if err != nil {
			t.Fatal(err)
		}
		if h1 == h2 {
			t.Error("identical hashes for two calls, salt not applied")
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Match", func(t *testing.T) {
		ok, err := VerifyPassword(hash, "Secret123!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("correct password rejected")
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		ok, err := VerifyPassword(hash, "Wrong456!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("wrong password accepted")
		}
	})

	t.Run("Malformed Stored Hash", func(t *testing.T) {
		if _, err := VerifyPassword("not-a-hash", "Secret123!"); err == nil {
			t.Error("expected error for malformed stored value")
		}
	})
}
