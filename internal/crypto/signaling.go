package crypto

import (
	"crypto/rand"
	"encoding/base64"

	"wirecore/internal/domain"
	"wirecore/internal/util/memzero"
)

const signalingKeySize = 32

// GenerateSignalingKeys returns a fresh AES-256 encryption key and HMAC-SHA256
// key pair for push notification payloads, both base64 encoded.
func GenerateSignalingKeys() (domain.SignalingKeys, error) {
	enc := make([]byte, signalingKeySize)
	mac := make([]byte, signalingKeySize)
	defer memzero.ZeroAll(enc, mac)

	if _, err := rand.Read(enc); err != nil {
		return domain.SignalingKeys{}, err
	}
	if _, err := rand.Read(mac); err != nil {
		return domain.SignalingKeys{}, err
	}
	return domain.SignalingKeys{
		EncKey: base64.StdEncoding.EncodeToString(enc),
		MacKey: base64.StdEncoding.EncodeToString(mac),
	}, nil
}
