package keystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirecore/internal/domain"
)

func keysWithIDs(ids ...domain.PreKeyID) []domain.PreKey {
	out := make([]domain.PreKey, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.PreKey{ID: id})
	}
	return out
}

func TestAllocatePreKeyIDs_StartsAtZero(t *testing.T) {
	ids, err := allocatePreKeyIDs(keysWithIDs(domain.LastResortPreKeyID), 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.PreKeyID{0, 1, 2}, ids)
}

func TestAllocatePreKeyIDs_WrapSkipsStoredIDs(t *testing.T) {
	stored := keysWithIDs(0, 1, 65533, domain.LastResortPreKeyID)

	ids, err := allocatePreKeyIDs(stored, 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.PreKeyID{65534, 2, 3}, ids)
}

func TestAllocatePreKeyIDs_Exhausted(t *testing.T) {
	var all []domain.PreKeyID
	for id := domain.PreKeyID(0); id < domain.LastResortPreKeyID-1; id++ {
		all = append(all, id)
	}
	stored := keysWithIDs(all...)

	ids, err := allocatePreKeyIDs(stored, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.PreKeyID{65534}, ids)

	_, err = allocatePreKeyIDs(stored, 2)
	assert.ErrorIs(t, err, ErrPreKeyIDsExhausted)
}
