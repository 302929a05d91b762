package types

// PreKeyID is the numeric identifier of a prekey.
type PreKeyID uint16

// LastResortPreKeyID is reserved for the standing last-resort prekey. It is
// never part of the regular prekey batch uploaded to the backend.
const LastResortPreKeyID PreKeyID = 0xFFFF

// IsLastResort reports whether id is the last-resort sentinel.
func (id PreKeyID) IsLastResort() bool { return id == LastResortPreKeyID }

// PreKey is a locally held prekey pair.
type PreKey struct {
	ID   PreKeyID      `json:"id"`
	Priv X25519Private `json:"priv"`
	Pub  X25519Public  `json:"pub"`
}

// SerializedPreKey is the public form of a prekey as the backend stores it.
// Key is the base64 encoded public bundle.
type SerializedPreKey struct {
	ID  PreKeyID `json:"id"`
	Key string   `json:"key" validate:"required,base64"`
}

// PreKeyMap is the bulk prekey lookup result: user -> client -> prekey.
// A nil entry means the client has no prekey left.
type PreKeyMap map[UserID]map[ClientID]*SerializedPreKey

// UserClients names the devices to fetch prekeys for.
type UserClients map[UserID][]ClientID
