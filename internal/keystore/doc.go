// Package keystore implements the device key store: it owns the identity key
// pair and the prekeys, and hands out only their public, serialized forms.
//
// Init creates (or reloads) the identity and a fresh initial batch of
// prekeys with ids 0..n-1 plus the last-resort prekey (id 65535). NewPreKeys
// continues the id sequence for replenishment and never issues the sentinel.
// Private material is persisted through the IdentityStore and PreKeyStore
// interfaces, sealed with the configured passphrase.
package keystore
