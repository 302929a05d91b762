// Package crypto holds the key primitives the key store is built on.
//
// NewIdentity and NewPreKey create key pairs; private scalars are clamped
// per RFC 7748. Prekeys are published as signed bundles (EncodePreKeyBundle)
// so a peer can check that a prekey belongs to the identity it claims.
// GenerateSignalingKeys creates the symmetric keys for push payloads and
// Fingerprint gives the short form of an identity shown to users.
//
// Key types are the fixed-size arrays from internal/domain. Temporary
// secret buffers are wiped with memzero once used.
package crypto
