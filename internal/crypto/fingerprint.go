package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"wirecore/internal/domain"
)

// Fingerprint identifies an identity to humans: the first 16 bytes of the
// SHA-256 of its signing key, hex encoded.
func Fingerprint(pub domain.Ed25519Public) domain.Fingerprint {
	sum := sha256.Sum256(pub[:])
	return domain.Fingerprint(hex.EncodeToString(sum[:16]))
}
