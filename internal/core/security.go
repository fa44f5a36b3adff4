// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// hashParams pins the argon2id cost a hash was produced with. The cost
// travels inside the PHC string, so old hashes stay verifiable after
// the current cost changes.
type hashParams struct {
	memory  uint32
	passes  uint32
	threads uint8
	keyLen  uint32
}

// currentCost follows the OWASP argon2id minimum: 19 MiB, two passes,
// one lane. Hashes made under a different cost still verify and are
// upgraded on the next successful login.
var currentCost = hashParams{
	memory:  19 * 1024,
	passes:  2,
	threads: 1,
	keyLen:  32,
}

const saltLength = 16

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	return encodeHash(deriveKey(password, salt, currentCost), salt, currentCost), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	cost, salt, want, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	got := deriveKey(password, salt, cost)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// VerifyPasswordWithRehash verifies and, when the stored hash was made
// under an outdated cost, returns a replacement hash for the caller to
// persist. The empty string means the stored hash is current.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return valid, "", err
	}

	if !staleCost(encodedHash) {
		return true, "", nil
	}

	newHash, hashErr := HashPassword(password)
	if hashErr != nil {
		//nolint:nilerr // password verified successfully; rehash failure is non-critical
		return true, "", nil
	}

	return true, newHash, nil
}

// decoyHash absorbs an argon2 round for logins against unknown emails,
// keeping the response time indistinguishable from a real account.
var decoyHash = func() string {
	hash, err := HashPassword(mustRandomString(24))
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return hash
}()

func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	target := decoyHash
	if encodedHash != nil && *encodedHash != "" {
		target = *encodedHash
	}

	valid, newHash, err := VerifyPasswordWithRehash(password, target)

	if encodedHash == nil || *encodedHash == "" {
		return false, "", nil
	}

	return valid, newHash, err
}

func deriveKey(password string, salt []byte, cost hashParams) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		cost.passes,
		cost.memory,
		cost.threads,
		cost.keyLen,
	)
}

func encodeHash(key, salt []byte, cost hashParams) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		cost.memory,
		cost.passes,
		cost.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func parseHash(encodedHash string) (hashParams, []byte, []byte, error) {
	var cost hashParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return cost, nil, nil, fmt.Errorf("malformed password hash")
	}
	if parts[1] != "argon2id" {
		return cost, nil, nil, fmt.Errorf(
			"unsupported hash algorithm %q", parts[1],
		)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return cost, nil, nil, fmt.Errorf("parse hash version: %w", err)
	}
	if version != argon2.Version {
		return cost, nil, nil, fmt.Errorf(
			"incompatible argon2 version %d", version,
		)
	}

	if _, err := fmt.Sscanf(
		parts[3], "m=%d,t=%d,p=%d",
		&cost.memory, &cost.passes, &cost.threads,
	); err != nil {
		return cost, nil, nil, fmt.Errorf("parse hash cost: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return cost, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return cost, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: derived keys are 32 bytes
	cost.keyLen = uint32(len(key))

	return cost, salt, key, nil
}

func staleCost(encodedHash string) bool {
	cost, _, _, err := parseHash(encodedHash)
	if err != nil {
		return true
	}
	return cost != currentCost
}

// refreshTokenBytes gives 256 bits of entropy per opaque refresh token.
const refreshTokenBytes = 32

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(refreshTokenBytes)
}

func GenerateSecureToken(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func mustRandomString(length int) string {
	s, err := GenerateSecureToken(length)
	if err != nil {
		panic(fmt.Sprintf("security: random string: %v", err))
	}
	return s
}

// HashToken maps an opaque token to the digest stored in the sessions
// table, so a database leak exposes no usable refresh tokens.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

func CompareTokenHash(token, hash string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(HashToken(token)),
		[]byte(hash),
	) == 1
}
