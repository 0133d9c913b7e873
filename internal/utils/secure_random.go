package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureRandomString returns a hex string of lengthInBytes random bytes.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
