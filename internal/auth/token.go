package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Session token format: es_{secret}
// Example: es_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const tokenSecretLen = 64 // hex encoded 32 bytes

var tokenFormatRegex = regexp.MustCompile(`^es_[a-f0-9]{64}$`)

// GenerateSessionToken creates a new opaque session token. The token is
// random; all session state lives server-side keyed by its hash.
func GenerateSessionToken() (string, error) {
	secret := make([]byte, tokenSecretLen/2)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return "es_" + hex.EncodeToString(secret), nil
}

// ValidateTokenFormat checks the token shape before hitting the session
// store, so malformed cookies are rejected without a round trip.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
