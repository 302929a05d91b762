package keystore

import (
	"errors"
	"fmt"
	"sync"

	"wirecore/internal/crypto"
	"wirecore/internal/domain"
)

// DefaultInitialPreKeys is the size of the first prekey batch.
const DefaultInitialPreKeys = 100

var (
	// ErrNotInitialised is returned before Init has created an identity.
	ErrNotInitialised = errors.New("key store not initialised")
	// ErrPassphraseRequired is returned when no passphrase was configured.
	ErrPassphraseRequired = errors.New("key store passphrase required")
	// ErrPreKeyCount is returned when fewer than one prekey is requested.
	ErrPreKeyCount = errors.New("prekey count must be positive")
	// ErrPreKeyIDsExhausted is returned when every id below the last-resort
	// id is already held by a stored prekey.
	ErrPreKeyIDsExhausted = errors.New("no free prekey ids")
)

// Box is the file-backed KeyStore.
type Box struct {
	ids        domain.IdentityStore
	pks        domain.PreKeyStore
	passphrase string
	initial    int

	mu         sync.Mutex
	identity   *domain.Identity
	preKeys    []domain.PreKey
	lastResort *domain.PreKey
}

// New returns a Box persisting through ids and pks. initial <= 0 selects
// DefaultInitialPreKeys.
func New(ids domain.IdentityStore, pks domain.PreKeyStore, passphrase string, initial int) *Box {
	if initial <= 0 {
		initial = DefaultInitialPreKeys
	}
	return &Box{ids: ids, pks: pks, passphrase: passphrase, initial: initial}
}

// Init loads the identity or creates one, then generates the initial prekey
// batch. The returned slice ends with the last-resort prekey.
func (b *Box) Init() ([]domain.PreKey, error) {
	if b.passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok, err := b.ids.LoadIdentity(b.passphrase)
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if !ok {
		if id, err = crypto.NewIdentity(); err != nil {
			return nil, err
		}
		if err := b.ids.SaveIdentity(b.passphrase, id); err != nil {
			return nil, fmt.Errorf("save identity: %w", err)
		}
	}
	b.identity = &id

	stored, err := b.pks.LoadPreKeys(b.passphrase)
	if err != nil {
		return nil, fmt.Errorf("load prekeys: %w", err)
	}
	var last *domain.PreKey
	for i := range stored {
		if stored[i].ID.IsLastResort() {
			last = &stored[i]
			break
		}
	}
	if last == nil {
		pk, err := crypto.NewPreKey(domain.LastResortPreKeyID)
		if err != nil {
			return nil, err
		}
		last = &pk
	}

	batch := make([]domain.PreKey, 0, b.initial+1)
	for i := 0; i < b.initial; i++ {
		pk, err := crypto.NewPreKey(domain.PreKeyID(i))
		if err != nil {
			return nil, err
		}
		batch = append(batch, pk)
	}
	batch = append(batch, *last)

	if err := b.pks.SavePreKeys(b.passphrase, batch); err != nil {
		return nil, fmt.Errorf("save prekeys: %w", err)
	}
	b.preKeys = batch
	b.lastResort = last
	return append([]domain.PreKey(nil), batch...), nil
}

// LastResortPreKey returns the standing last-resort prekey.
func (b *Box) LastResortPreKey() (domain.PreKey, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastResort == nil {
		return domain.PreKey{}, ErrNotInitialised
	}
	return *b.lastResort, nil
}

// NewPreKeys creates count regular prekeys continuing after the highest id
// in use. Ids wrap below the sentinel and skip ids still stored.
func (b *Box) NewPreKeys(count int) ([]domain.PreKey, error) {
	if count <= 0 {
		return nil, ErrPreKeyCount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		if err := b.reload(); err != nil {
			return nil, err
		}
	}

	ids, err := allocatePreKeyIDs(b.preKeys, count)
	if err != nil {
		return nil, err
	}
	fresh := make([]domain.PreKey, 0, count)
	for _, id := range ids {
		pk, err := crypto.NewPreKey(id)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, pk)
	}

	all := append(append([]domain.PreKey(nil), b.preKeys...), fresh...)
	if err := b.pks.SavePreKeys(b.passphrase, all); err != nil {
		return nil, fmt.Errorf("save prekeys: %w", err)
	}
	b.preKeys = all
	return fresh, nil
}

// SerializePreKey returns the public, signed form of pk.
func (b *Box) SerializePreKey(pk domain.PreKey) (domain.SerializedPreKey, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		return domain.SerializedPreKey{}, ErrNotInitialised
	}
	return domain.SerializedPreKey{
		ID:  pk.ID,
		Key: crypto.EncodePreKeyBundle(*b.identity, pk),
	}, nil
}

// Fingerprint returns the fingerprint of the identity's signing key.
func (b *Box) Fingerprint() (domain.Fingerprint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		if err := b.reload(); err != nil {
			return "", err
		}
	}
	return crypto.Fingerprint(b.identity.EdPub), nil
}

// GenerateSignalingKeys returns fresh signaling keys.
func (b *Box) GenerateSignalingKeys() (domain.SignalingKeys, error) {
	return crypto.GenerateSignalingKeys()
}

// reload restores state saved by an earlier Init. Callers hold b.mu.
func (b *Box) reload() error {
	if b.passphrase == "" {
		return ErrPassphraseRequired
	}
	id, ok, err := b.ids.LoadIdentity(b.passphrase)
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}
	if !ok {
		return ErrNotInitialised
	}
	if !id.Valid() {
		return errors.New("stored identity is incomplete")
	}
	pks, err := b.pks.LoadPreKeys(b.passphrase)
	if err != nil {
		return fmt.Errorf("load prekeys: %w", err)
	}
	b.identity = &id
	b.preKeys = pks
	for i := range pks {
		if pks[i].ID.IsLastResort() {
			last := pks[i]
			b.lastResort = &last
		}
	}
	return nil
}

// allocatePreKeyIDs picks count unused regular ids, starting after the
// highest one in pks and wrapping below the last-resort id.
func allocatePreKeyIDs(pks []domain.PreKey, count int) ([]domain.PreKeyID, error) {
	used := make(map[domain.PreKeyID]struct{}, len(pks))
	var (
		hi    domain.PreKeyID
		found bool
	)
	for _, pk := range pks {
		if pk.ID.IsLastResort() {
			continue
		}
		used[pk.ID] = struct{}{}
		if !found || pk.ID > hi {
			hi, found = pk.ID, true
		}
	}
	if count > int(domain.LastResortPreKeyID)-len(used) {
		return nil, ErrPreKeyIDsExhausted
	}

	var next domain.PreKeyID
	if found {
		next = (hi + 1) % domain.LastResortPreKeyID
	}
	ids := make([]domain.PreKeyID, 0, count)
	for len(ids) < count {
		if _, taken := used[next]; !taken {
			ids = append(ids, next)
		}
		next = (next + 1) % domain.LastResortPreKeyID
	}
	return ids, nil
}

// Compile-time assertion that Box implements domain.KeyStore.
var _ domain.KeyStore = (*Box)(nil)
