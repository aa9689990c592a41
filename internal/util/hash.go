package util

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// GenerateHash creates a short identifier from note content and a timestamp
func GenerateHash(content string, timestamp int64) string {
	hasher := sha256.New()
	hasher.Write([]byte(content))
	hasher.Write([]byte(time.Unix(0, timestamp).String()))
	return hex.EncodeToString(hasher.Sum(nil))[:16] // Use first 16 chars of the hash
}
