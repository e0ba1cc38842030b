package utils // package utils provides small helpers shared by middleware

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyFingerprint returns the first 16 hex characters of the SHA-256 digest
// of an API key.  Rate-limit keys use it so the raw secret is never stored
// in Redis.  An empty key yields "anon".
func KeyFingerprint(raw string) string {
	if raw == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}
