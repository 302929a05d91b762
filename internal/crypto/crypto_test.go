package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"

	"wirecore/internal/crypto"
	"wirecore/internal/domain"
)

func TestNewIdentity_SignsAndVerifies(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)

	sig := crypto.Sign(id, []byte("hello"))
	assert.True(t, crypto.Verify(id.EdPub, []byte("hello"), sig))
	assert.False(t, crypto.Verify(id.EdPub, []byte("hullo"), sig))
}

func TestNewPreKey_ClampedAndMatchingPublic(t *testing.T) {
	pk, err := crypto.NewPreKey(7)
	require.NoError(t, err)

	assert.Equal(t, domain.PreKeyID(7), pk.ID)
	assert.Zero(t, pk.Priv[0]&7)
	assert.Equal(t, byte(64), pk.Priv[31]&0xC0)

	pub, err := curve25519.X25519(pk.Priv[:], curve25519.Basepoint)
	require.NoError(t, err)
	assert.Equal(t, pk.Pub[:], pub)
}

func TestPreKeyBundle_RoundTripVerifies(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)
	pk, err := crypto.NewPreKey(42)
	require.NoError(t, err)

	b, err := crypto.DecodePreKeyBundle(crypto.EncodePreKeyBundle(id, pk))
	require.NoError(t, err)
	assert.Equal(t, domain.PreKeyID(42), b.ID)
	assert.Equal(t, pk.Pub, b.PreKey)
	assert.Equal(t, id.EdPub, b.IdentityKey)
}

func TestPreKeyBundle_TamperedRejected(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)
	pk, err := crypto.NewPreKey(1)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(crypto.EncodePreKeyBundle(id, pk))
	require.NoError(t, err)
	raw[40] ^= 0xFF

	_, err = crypto.DecodePreKeyBundle(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)

	_, err = crypto.DecodePreKeyBundle("not base64!")
	assert.Error(t, err)
}

func TestGenerateSignalingKeys_DistinctBase64(t *testing.T) {
	keys, err := crypto.GenerateSignalingKeys()
	require.NoError(t, err)

	enc, err := base64.StdEncoding.DecodeString(keys.EncKey)
	require.NoError(t, err)
	mac, err := base64.StdEncoding.DecodeString(keys.MacKey)
	require.NoError(t, err)
	assert.Len(t, enc, 32)
	assert.Len(t, mac, 32)
	assert.NotEqual(t, enc, mac)
}

func TestFingerprint_Stable(t *testing.T) {
	id, err := crypto.NewIdentity()
	require.NoError(t, err)

	fp := crypto.Fingerprint(id.EdPub)
	assert.Equal(t, fp, crypto.Fingerprint(id.EdPub))
	assert.Len(t, fp.String(), 32)
}
