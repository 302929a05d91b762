package devbackend

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
)

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// randomHex returns 2n lowercase hex characters.
func randomHex(n int) string {
	b, err := randomBytes(n)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func marshal(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}
