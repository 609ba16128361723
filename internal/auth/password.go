package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	iterations = 100000
	keyLength  = 32
)

// HashPassword derives a PBKDF2-HMAC-SHA256 hash with a fresh random salt.
// The result is stored as "salt$hash", both hex-encoded.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(saltHex), iterations, keyLength, sha256.New)
	return saltHex + "$" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches the stored "salt$hash".
// Malformed stored values verify as false rather than erroring.
func VerifyPassword(password, stored string) bool {
	salt, want, ok := strings.Cut(stored, "$")
	if !ok || salt == "" || want == "" {
		return false
	}

	wantKey, err := hex.DecodeString(want)
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(wantKey), sha256.New)
	return hmac.Equal(key, wantKey)
}
