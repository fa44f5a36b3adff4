// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash prefix = %q, want $argon2id$", hash[:10])
	}

	valid, err := VerifyPassword("correct horse battery", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !valid {
		t.Error("correct password rejected")
	}

	valid, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if valid {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Error("identical hashes for two calls; salt is not random")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("x", "not-a-hash"); err == nil {
		t.Error("malformed hash accepted")
	}
	if _, err := VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$a$b"); err == nil {
		t.Error("foreign algorithm accepted")
	}
}

func TestVerifyPasswordTimingSafeNilHash(t *testing.T) {
	// The nil-hash path still burns a full argon2 round but must never
	// report a match.
	valid, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	if err != nil {
		t.Fatalf("VerifyPasswordTimingSafe: %v", err)
	}
	if valid {
		t.Error("nil hash verified as valid")
	}
	if newHash != "" {
		t.Error("nil hash produced a rehash")
	}
}

func TestVerifyPasswordWithRehashCurrentParams(t *testing.T) {
	hash, err := HashPassword("a password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	valid, newHash, err := VerifyPasswordWithRehash("a password", hash)
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}
	if !valid {
		t.Error("current-params hash rejected")
	}
	if newHash != "" {
		t.Error("current-params hash triggered a rehash")
	}
}

func TestVerifyPasswordWithRehashUpgradesLegacyCost(t *testing.T) {
	// A hash minted under an older, heavier cost still verifies and
	// comes back with a replacement at the current cost.
	legacy := hashParams{memory: 64 * 1024, passes: 1, threads: 4, keyLen: 32}
	salt := make([]byte, saltLength)
	hash := encodeHash(deriveKey("old password", salt, legacy), salt, legacy)

	valid, newHash, err := VerifyPasswordWithRehash("old password", hash)
	if err != nil {
		t.Fatalf("VerifyPasswordWithRehash: %v", err)
	}
	if !valid {
		t.Fatal("legacy-cost hash rejected")
	}
	if newHash == "" {
		t.Fatal("legacy-cost hash not upgraded")
	}

	valid, err = VerifyPassword("old password", newHash)
	if err != nil {
		t.Fatalf("VerifyPassword replacement: %v", err)
	}
	if !valid {
		t.Error("replacement hash does not verify")
	}
	if staleCost(newHash) {
		t.Error("replacement hash still carries a stale cost")
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Error("two generated tokens collided")
	}
	if len(a) == 0 {
		t.Error("empty token")
	}
}

func TestHashToken(t *testing.T) {
	token := "some-opaque-token"
	hash := HashToken(token)

	if hash == token {
		t.Error("token stored unhashed")
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(hash))
	}
	if hash != HashToken(token) {
		t.Error("hash is not deterministic")
	}

	if !CompareTokenHash(token, hash) {
		t.Error("matching token rejected")
	}
	if CompareTokenHash("other-token", hash) {
		t.Error("non-matching token accepted")
	}
}
