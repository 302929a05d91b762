package interfaces

import domaintypes "wirecore/internal/domain/types"

// KeyStore owns the device identity and its prekeys.
type KeyStore interface {
	// Init creates the identity and the initial prekey batch. The batch
	// includes the last-resort prekey.
	Init() ([]domaintypes.PreKey, error)
	// LastResortPreKey returns the standing last-resort prekey.
	LastResortPreKey() (domaintypes.PreKey, error)
	// NewPreKeys creates count fresh regular prekeys.
	NewPreKeys(count int) ([]domaintypes.PreKey, error)
	SerializePreKey(pk domaintypes.PreKey) (domaintypes.SerializedPreKey, error)
	Fingerprint() (domaintypes.Fingerprint, error)
	GenerateSignalingKeys() (domaintypes.SignalingKeys, error)
}
