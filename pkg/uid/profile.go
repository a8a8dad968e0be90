package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateProfileID generates a cryptographically secure random profile ID
func GenerateProfileID() (string, error) {
	bytes := make([]byte, 32) // 256 bits
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate profile ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
