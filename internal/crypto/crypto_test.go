package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("secret123", hash)
	if err != nil || !ok {
		t.Errorf("VerifyPassword(correct) = %v, %v", ok, err)
	}
	ok, err = VerifyPassword("secret124", hash)
	if err != nil || ok {
		t.Errorf("VerifyPassword(wrong) = %v, %v", ok, err)
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, bad := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := VerifyPassword("x", bad); !errors.Is(err, ErrMalformedHash) {
			t.Errorf("VerifyPassword(%q) err = %v, want ErrMalformedHash", bad, err)
		}
	}
}

func TestDeriveSigningKey(t *testing.T) {
	k1, err := DeriveSigningKey("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := DeriveSigningKey("s3cret")
	k3, _ := DeriveSigningKey("other")
	if len(k1) != keyLen {
		t.Errorf("key length = %d", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Error("derivation should be deterministic")
	}
	if bytes.Equal(k1, k3) {
		t.Error("different secrets should give different keys")
	}
	if _, err := DeriveSigningKey(""); err == nil {
		t.Error("empty secret should fail")
	}
}

func TestRandomSecret(t *testing.T) {
	a, err := RandomSecret()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RandomSecret()
	if a == b || len(a) < 40 {
		t.Errorf("weak secrets: %q %q", a, b)
	}
}
