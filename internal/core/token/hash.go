package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 digest of a raw token as a hex string. Only the
// digest is ever stored server-side, so a leaked allow-list cannot be used
// to refresh sessions.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
