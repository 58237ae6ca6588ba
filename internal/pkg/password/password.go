// Package password wraps credential hashing for user accounts and
// refresh tokens.
package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor for account passwords.
	DefaultCost = 12

	// MinLength is the minimum accepted password length.
	MinLength = 8
)

// Hash hashes an account password with bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether password matches the stored bcrypt hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken digests a refresh token with SHA-256 so the raw token is
// never stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword reports whether the password meets length requirements
func ValidatePassword(password string) bool {
	return len(password) >= MinLength
}
