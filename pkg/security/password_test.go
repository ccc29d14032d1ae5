package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/vitrinelabs/vitrine-backend/pkg/config"
)

// Low-cost parameters keep the test fast without changing the code path.
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("correct horse battery staple", testPasswordConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("wrong password", encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", testPasswordConfig); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same password", testPasswordConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashPassword("same password", testPasswordConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	for _, encoded := range []string{"", "plain", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=8,t=1,p=1$!!$??"} {
		_, err := VerifyPassword("whatever", encoded)
		if !errors.Is(err, ErrInvalidHash) {
			t.Errorf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestGenerateTempPassword(t *testing.T) {
	t.Parallel()

	password, err := GenerateTempPassword(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(password) != 12 {
		t.Fatalf("expected 12 characters, got %d", len(password))
	}
	if _, err := GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
