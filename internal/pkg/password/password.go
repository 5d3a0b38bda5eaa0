package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const (
	// MinLength is the minimum accepted password length
	MinLength = 6
)

// Verify compares a submitted password with the stored one. The data layout
// stores passwords as plaintext (a documented weakness of the existing
// repository contents, kept for compatibility), so this is an equality check
// in constant time rather than a hash comparison.
func Verify(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Validate checks if password meets requirements
func Validate(password string) bool {
	return len(password) >= MinLength
}
