package types

// Key sizes in bytes.
const (
	DHKeySize          = 32
	SigningPublicSize  = 32
	SigningPrivateSize = 64
)

type (
	// X25519Public is a Curve25519 point used for key agreement.
	X25519Public [DHKeySize]byte
	// X25519Private is a clamped Curve25519 scalar.
	X25519Private [DHKeySize]byte
	// Ed25519Public verifies prekey signatures.
	Ed25519Public [SigningPublicSize]byte
	// Ed25519Private is seed plus public key, as crypto/ed25519 expects.
	Ed25519Private [SigningPrivateSize]byte
)

// IsZero reports whether the key was never set.
func (p X25519Public) IsZero() bool { return p == X25519Public{} }

// IsZero reports whether the key was never set.
func (p Ed25519Public) IsZero() bool { return p == Ed25519Public{} }
