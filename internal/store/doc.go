// Package store provides persistence for the client's key material and
// session state.
//
// KeyFileStore seals the identity and prekeys with a passphrase
// (scrypt + XChaCha20-Poly1305) and writes them atomically. Session state is
// kept either in a JSON file (SessionFileStore) or in redis
// (RedisSessionStore) so separate CLI runs share one login. Credentials are
// never persisted.
package store
