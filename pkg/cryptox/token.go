package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Token size constants (bytes of entropy before encoding).
const (
	// TokenSize128 yields 22 base64url chars. Short-lived tokens.
	TokenSize128 = 16
	// TokenSize256 yields 43 base64url chars. Invitation tokens, API keys.
	TokenSize256 = 32
)

// GenerateToken returns a cryptographically random opaque token encoded as
// base64url without padding. The result is safe to embed in URLs and email
// bodies.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on failure. Only use
// during initialization where a failed RNG is unrecoverable anyway.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}
