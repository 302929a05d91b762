package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"wirecore/internal/domain"
)

// RedisSessionStore keeps session state in redis, one key per email.
type RedisSessionStore struct {
	cli     *redis.Client
	ctx     context.Context
	ttl     time.Duration
	keyPref string
}

// NewRedisSessionStore connects to addr. A zero ttl keeps entries forever.
func NewRedisSessionStore(addr string, ttl time.Duration) *RedisSessionStore {
	return NewRedisSessionStoreFromClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewRedisSessionStoreFromClient wraps an existing client.
func NewRedisSessionStoreFromClient(cli *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		cli:     cli,
		ctx:     context.Background(),
		ttl:     ttl,
		keyPref: "wirecore:session:",
	}
}

// SaveSession stores the session under its credentials' email.
func (r *RedisSessionStore) SaveSession(session domain.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.cli.Set(r.ctx, r.keyPref+session.Credentials.Email, b, r.ttl).Err()
}

// LoadSession retrieves the stored session for email.
func (r *RedisSessionStore) LoadSession(email string) (domain.Session, bool, error) {
	b, err := r.cli.Get(r.ctx, r.keyPref+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	var session domain.Session
	if err := json.Unmarshal(b, &session); err != nil {
		return domain.Session{}, false, err
	}
	session.Credentials.Email = email
	return session, true, nil
}

// DeleteSession drops the stored session for email.
func (r *RedisSessionStore) DeleteSession(email string) error {
	return r.cli.Del(r.ctx, r.keyPref+email).Err()
}

// Close releases the redis connection pool.
func (r *RedisSessionStore) Close() error { return r.cli.Close() }

// Compile-time assertion that RedisSessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*RedisSessionStore)(nil)
