package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"wirecore/internal/util/memzero"
)

const sealedFormatVersion = 1

// ErrWrongPassphrase is returned when a sealed file cannot be opened with the
// given passphrase, or was modified on disk.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")

// sealed is the on-disk JSON structure of a passphrase-protected file.
// The label is bound as associated data so files cannot be swapped.
type sealed struct {
	V      int    `json:"v"`
	Label  string `json:"label"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

type scryptParams struct{ N, R, P int }

// defaultScrypt is used for new files; existing files carry their own params.
var defaultScrypt = scryptParams{N: 1 << 15, R: 8, P: 1}

func seal(passphrase, label string, raw []byte, kdf scryptParams) ([]byte, error) {
	s := sealed{V: sealedFormatVersion, Label: label, N: kdf.N, R: kdf.R, P: kdf.P}
	s.Salt = make([]byte, 16)
	if _, err := rand.Read(s.Salt); err != nil {
		return nil, err
	}
	aead, err := s.aead(passphrase)
	if err != nil {
		return nil, err
	}
	s.Nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(s.Nonce); err != nil {
		return nil, err
	}
	s.Cipher = aead.Seal(nil, s.Nonce, raw, []byte(label))
	return json.Marshal(s)
}

func open(passphrase, label string, b []byte) ([]byte, error) {
	var s sealed
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse sealed %s: %w", label, err)
	}
	if s.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported key file version %d", s.V)
	}
	if s.Label != label {
		return nil, ErrWrongPassphrase
	}
	aead, err := s.aead(passphrase)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, s.Nonce, s.Cipher, []byte(label))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

func (s *sealed) aead(passphrase string) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), s.Salt, s.N, s.R, s.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	return chacha20poly1305.NewX(key)
}
