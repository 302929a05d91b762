package types

// Identity is the device's long-term key material. It is created once by the
// key store, persisted encrypted, and never sent to the backend; only its
// fingerprint is surfaced.
type Identity struct {
	XPub   X25519Public   `json:"dh_public"`
	XPriv  X25519Private  `json:"dh_private"`
	EdPub  Ed25519Public  `json:"signing_public"`
	EdPriv Ed25519Private `json:"signing_private"`
}

// Valid reports whether both public halves are present.
func (id Identity) Valid() bool { return !id.XPub.IsZero() && !id.EdPub.IsZero() }
