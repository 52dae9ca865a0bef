package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password digests are bcrypt over a base64-encoded SHA-256 pre-digest,
// tagged with schemePrefix. The pre-digest keeps the bcrypt input at 44
// bytes no matter how long the password is, so long passwords never get
// silently truncated at bcrypt's 72-byte limit. Digests written by the old
// scheme (plain bcrypt, "$2a$"/"$2b$"...) still verify; they are recognized
// by their own tag, no data migration needed.
const schemePrefix = "$bcrypt-sha256$"

func preDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword hashes a plaintext password with the configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(preDigest(password), cost)
	if err != nil {
		return "", err
	}
	return schemePrefix + string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored digest. It never
// returns an error: an empty or malformed digest is simply a mismatch.
func VerifyPassword(plain, digest string) bool {
	switch {
	case digest == "":
		return false
	case strings.HasPrefix(digest, schemePrefix):
		stored := strings.TrimPrefix(digest, schemePrefix)
		return bcrypt.CompareHashAndPassword([]byte(stored), preDigest(plain)) == nil
	case strings.HasPrefix(digest, "$2"):
		// legacy plain-bcrypt digest
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
	default:
		return false
	}
}
