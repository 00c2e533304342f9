package util

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// EmailFingerprint returns a stable, non-reversible identifier for an
// email address, suitable for logs. Case and surrounding spaces are
// ignored so the same mailbox always yields the same value.
func EmailFingerprint(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:8])
}

// MaskEmail hides the local part of an address except its first rune:
// "alice@example.com" becomes "a****@example.com". Strings without an @
// are fully masked.
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return strings.Repeat("*", len([]rune(email)))
	}
	runes := []rune(local)
	return string(runes[0]) + strings.Repeat("*", len(runes)-1) + "@" + domain
}
