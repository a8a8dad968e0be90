package uid

import (
	"crypto/rand"
	"encoding/hex"
)

const gameIDBytes = 16

// GenerateGameID returns a random 32 character hex ID. Game sessions and the
// history records of their rounds each get one.
func GenerateGameID() string {
	b := make([]byte, gameIDBytes)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
