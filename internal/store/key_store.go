package store

import (
	"encoding/json"
	"path/filepath"
	"sync"

	"wirecore/internal/domain"
)

const (
	identityFile = "identity.enc"
	preKeysFile  = "prekeys.enc"
)

// KeyFileStore keeps the identity and prekey pairs on disk, each sealed with
// the passphrase.
type KeyFileStore struct {
	dir string
	kdf scryptParams
	mu  sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore rooted at dir.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir, kdf: defaultScrypt}
}

// SaveIdentity seals and writes the identity.
func (s *KeyFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	return s.saveSealed(passphrase, identityFile, id)
}

// LoadIdentity opens the identity; ok is false when none was saved yet.
func (s *KeyFileStore) LoadIdentity(passphrase string) (domain.Identity, bool, error) {
	var id domain.Identity
	ok, err := s.loadSealed(passphrase, identityFile, &id)
	return id, ok, err
}

// SavePreKeys replaces the stored prekey set.
func (s *KeyFileStore) SavePreKeys(passphrase string, preKeys []domain.PreKey) error {
	return s.saveSealed(passphrase, preKeysFile, preKeys)
}

// LoadPreKeys returns the stored prekey set, empty if none was saved.
func (s *KeyFileStore) LoadPreKeys(passphrase string) ([]domain.PreKey, error) {
	var pks []domain.PreKey
	_, err := s.loadSealed(passphrase, preKeysFile, &pks)
	return pks, err
}

func (s *KeyFileStore) saveSealed(passphrase, name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b, err := seal(passphrase, name, raw, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, name), b, privateMode)
}

func (s *KeyFileStore) loadSealed(passphrase, name string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, name))
	if err != nil || b == nil {
		return false, err
	}
	pt, err := open(passphrase, name, b)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(pt, out)
}

// Compile-time assertions that KeyFileStore implements the key stores.
var (
	_ domain.IdentityStore = (*KeyFileStore)(nil)
	_ domain.PreKeyStore   = (*KeyFileStore)(nil)
)
