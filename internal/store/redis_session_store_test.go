package store_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wirecore/internal/domain"
	"wirecore/internal/store"
)

// Runs against a real redis when WIRECORE_TEST_REDIS is set, e.g.
// WIRECORE_TEST_REDIS=127.0.0.1:6379.
func TestRedisSessionStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("WIRECORE_TEST_REDIS")
	if addr == "" {
		t.Skip("WIRECORE_TEST_REDIS not set")
	}
	rs := store.NewRedisSessionStore(addr, time.Minute)
	t.Cleanup(func() { _ = rs.Close() })

	sess := domain.Session{
		Credentials: domain.Credentials{Email: "redis-test@example.com", Password: "secret"},
		AccessToken: "tok",
		Client:      &domain.ClientRecord{ID: "c1"},
	}
	require.NoError(t, rs.SaveSession(sess))

	got, ok, err := rs.LoadSession("redis-test@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Ready())
	assert.Empty(t, got.Credentials.Password)

	require.NoError(t, rs.DeleteSession("redis-test@example.com"))
	_, ok, err = rs.LoadSession("redis-test@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSessionStore_UnreachableIsError(t *testing.T) {
	rs := store.NewRedisSessionStore("127.0.0.1:1", 0)
	t.Cleanup(func() { _ = rs.Close() })

	_, ok, err := rs.LoadSession("alice@example.com")
	assert.Error(t, err)
	assert.False(t, ok)
}
