package crypto

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"wirecore/internal/domain"
)

const (
	bundleVersion = 1
	// version(1) | prekey id(2) | identity ed25519 pub(32) | prekey x25519 pub(32) | sig(64)
	bundleSize = 1 + 2 + 32 + 32 + 64
)

var errBadBundle = errors.New("malformed prekey bundle")

// PublicPreKeyBundle is what a peer needs to open a session with one of our
// prekeys: our signing identity, the prekey and a signature binding them.
type PublicPreKeyBundle struct {
	ID          domain.PreKeyID
	IdentityKey domain.Ed25519Public
	PreKey      domain.X25519Public
	Signature   []byte
}

// EncodePreKeyBundle signs pk with the identity and returns the base64 bundle.
func EncodePreKeyBundle(id domain.Identity, pk domain.PreKey) string {
	buf := make([]byte, 0, bundleSize)
	buf = append(buf, bundleVersion)
	buf = binary.BigEndian.AppendUint16(buf, uint16(pk.ID))
	buf = append(buf, id.EdPub[:]...)
	buf = append(buf, pk.Pub[:]...)
	buf = append(buf, Sign(id, signedPart(pk.ID, pk.Pub))...)
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodePreKeyBundle parses and verifies a bundle produced by EncodePreKeyBundle.
func DecodePreKeyBundle(s string) (PublicPreKeyBundle, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return PublicPreKeyBundle{}, fmt.Errorf("decode prekey bundle: %w", err)
	}
	if len(raw) != bundleSize || raw[0] != bundleVersion {
		return PublicPreKeyBundle{}, errBadBundle
	}
	var b PublicPreKeyBundle
	b.ID = domain.PreKeyID(binary.BigEndian.Uint16(raw[1:3]))
	copy(b.IdentityKey[:], raw[3:35])
	copy(b.PreKey[:], raw[35:67])
	b.Signature = append([]byte(nil), raw[67:]...)
	if !Verify(b.IdentityKey, signedPart(b.ID, b.PreKey), b.Signature) {
		return PublicPreKeyBundle{}, errBadBundle
	}
	return b, nil
}

func signedPart(id domain.PreKeyID, pub domain.X25519Public) []byte {
	out := binary.BigEndian.AppendUint16(nil, uint16(id))
	return append(out, pub[:]...)
}
