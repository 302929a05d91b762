package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"wirecore/internal/domain"
	"wirecore/internal/util/memzero"
)

// NewIdentity creates the device's long-term key pairs: an X25519 pair for
// key agreement and an Ed25519 pair that signs prekeys.
func NewIdentity() (domain.Identity, error) {
	var id domain.Identity
	if err := newDH(&id.XPriv, &id.XPub); err != nil {
		return domain.Identity{}, fmt.Errorf("identity dh key: %w", err)
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity signing key: %w", err)
	}
	copy(id.EdPub[:], pub)
	copy(id.EdPriv[:], priv)
	memzero.Zero(priv)
	return id, nil
}

// NewPreKey creates the prekey pair with the given id.
func NewPreKey(id domain.PreKeyID) (domain.PreKey, error) {
	pk := domain.PreKey{ID: id}
	if err := newDH(&pk.Priv, &pk.Pub); err != nil {
		return domain.PreKey{}, fmt.Errorf("prekey %d: %w", id, err)
	}
	return pk, nil
}

// newDH fills priv with a clamped random scalar (RFC 7748) and pub with the
// matching public point.
func newDH(priv *domain.X25519Private, pub *domain.X25519Public) error {
	if _, err := rand.Read(priv[:]); err != nil {
		return err
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64
	p, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return err
	}
	copy(pub[:], p)
	return nil
}

// Sign signs msg with the identity's signing key.
func Sign(id domain.Identity, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(id.EdPriv[:]), msg)
}

// Verify checks sig over msg against an identity signing key.
func Verify(pub domain.Ed25519Public, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}
