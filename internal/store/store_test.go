package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirecore/internal/domain"
	"wirecore/internal/store"
)

func TestIdentity_SaveLoad_OK(t *testing.T) {
	ks := store.NewKeyFileStore(t.TempDir())
	id := domain.Identity{
		XPub:   domain.X25519Public{1},
		XPriv:  domain.X25519Private{2},
		EdPub:  domain.Ed25519Public{3},
		EdPriv: domain.Ed25519Private{4},
	}
	require.NoError(t, ks.SaveIdentity("pass", id))

	got, ok, err := ks.LoadIdentity("pass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestIdentity_Missing_NotOK(t *testing.T) {
	ks := store.NewKeyFileStore(t.TempDir())
	_, ok, err := ks.LoadIdentity("pass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	ks := store.NewKeyFileStore(t.TempDir())
	require.NoError(t, ks.SaveIdentity("correct", domain.Identity{XPub: domain.X25519Public{1}}))

	_, _, err := ks.LoadIdentity("wrong")
	assert.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestPreKeys_SaveLoad_OK(t *testing.T) {
	ks := store.NewKeyFileStore(t.TempDir())
	pks := []domain.PreKey{
		{ID: 0, Pub: domain.X25519Public{9}},
		{ID: domain.LastResortPreKeyID, Pub: domain.X25519Public{7}},
	}
	require.NoError(t, ks.SavePreKeys("pass", pks))

	got, err := ks.LoadPreKeys("pass")
	require.NoError(t, err)
	assert.Equal(t, pks, got)
}

func TestSessionFileStore_RoundTripWithoutPassword(t *testing.T) {
	ss := store.NewSessionFileStore(t.TempDir())
	sess := domain.Session{
		BackendURL:  "http://localhost:8080",
		Credentials: domain.Credentials{Email: "alice@example.com", Password: "secret"},
		AccessToken: "tok",
		Client:      &domain.ClientRecord{ID: "c1"},
		Self:        &domain.UserProfile{ID: "u1"},
	}
	require.NoError(t, ss.SaveSession(sess))

	got, ok, err := ss.LoadSession("alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok", got.AccessToken)
	assert.Equal(t, domain.ClientID("c1"), got.ClientID())
	assert.Equal(t, "alice@example.com", got.Credentials.Email)
	assert.Empty(t, got.Credentials.Password)

	require.NoError(t, ss.DeleteSession("alice@example.com"))
	_, ok, err = ss.LoadSession("alice@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionFileStore_KeyMaterialNotWritten(t *testing.T) {
	dir := t.TempDir()
	ss := store.NewSessionFileStore(dir)
	sess := domain.Session{
		Credentials: domain.Credentials{Email: "alice@example.com"},
		AccessToken: "tok",
		ClientInfo: domain.ClientInfo{
			Type:     domain.ClientTypePermanent,
			Class:    domain.ClientClassDesktop,
			Cookie:   "cookie-1",
			Password: "secret",
			LastKey:  &domain.SerializedPreKey{ID: domain.LastResortPreKeyID, Key: "bGFzdA=="},
			PreKeys:  []domain.SerializedPreKey{{ID: 1, Key: "b25l"}},
			SigKeys:  &domain.SignalingKeys{EncKey: "ZW5jLWtleQ==", MacKey: "bWFjLWtleQ=="},
		},
	}
	require.NoError(t, ss.SaveSession(sess))

	raw, err := os.ReadFile(filepath.Join(dir, "sessions.json"))
	require.NoError(t, err)
	for _, secret := range []string{"ZW5jLWtleQ==", "bWFjLWtleQ==", "bGFzdA==", "b25l", "secret"} {
		assert.NotContains(t, string(raw), secret)
	}

	got, ok, err := ss.LoadSession("alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cookie-1", got.ClientInfo.Cookie)
	assert.Equal(t, domain.ClientClassDesktop, got.ClientInfo.Class)
	assert.Nil(t, got.ClientInfo.SigKeys)
	assert.Empty(t, got.ClientInfo.PreKeys)

	require.NotNil(t, sess.ClientInfo.SigKeys)
}
