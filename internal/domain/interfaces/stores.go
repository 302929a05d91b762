package interfaces

import domaintypes "wirecore/internal/domain/types"

// IdentityStore persists the long-term identity keys.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.Identity) error
	LoadIdentity(passphrase string) (domaintypes.Identity, bool, error)
}

// PreKeyStore persists prekey pairs.
type PreKeyStore interface {
	SavePreKeys(passphrase string, preKeys []domaintypes.PreKey) error
	LoadPreKeys(passphrase string) ([]domaintypes.PreKey, error)
}

// SessionStore persists session state between runs, keyed by email.
type SessionStore interface {
	SaveSession(session domaintypes.Session) error
	LoadSession(email string) (domaintypes.Session, bool, error)
	DeleteSession(email string) error
}
