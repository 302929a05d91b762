package types

// Identifiers handed out by the backend. They are opaque strings; the
// backend formats user ids as UUIDs and client ids as short hex.
type (
	UserID         string
	ClientID       string
	ConversationID string
)

func (u UserID) String() string         { return string(u) }
func (c ClientID) String() string       { return string(c) }
func (c ConversationID) String() string { return string(c) }

// Fingerprint is the hex form of an identity shown to users for comparison.
type Fingerprint string

func (f Fingerprint) String() string { return string(f) }
