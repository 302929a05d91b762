package types

import "encoding/json"

// ConnectionStatus is the state of a connection between two users.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionSent     ConnectionStatus = "sent"
	ConnectionBlocked  ConnectionStatus = "blocked"
	ConnectionIgnored  ConnectionStatus = "ignored"
)

// Connection is the connection record carried by a connection event.
type Connection struct {
	From         UserID           `json:"from"`
	To           UserID           `json:"to"`
	Status       ConnectionStatus `json:"status"`
	Conversation ConversationID   `json:"conversation,omitempty"`
}

// ConnectionEvent is a "user.connection" event.
type ConnectionEvent struct {
	Type       string     `json:"type"`
	Connection Connection `json:"connection"`
}

// EventTypeConnection is the event type of ConnectionEvent.
const EventTypeConnection = "user.connection"

// Notification is one real-time notification; each payload entry is an
// event whose shape depends on its "type".
type Notification struct {
	ID      string            `json:"id"`
	Payload []json.RawMessage `json:"payload"`
}

// EventType peeks at the "type" field of a raw event.
func EventType(raw json.RawMessage) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return head.Type
}
