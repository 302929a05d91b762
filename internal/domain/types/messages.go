package types

import "encoding/json"

// RecipientPayload is one encrypted message addressed to a single device.
// SessionID has the shape "<userId>@<clientId>".
type RecipientPayload struct {
	SessionID        string `json:"sessionId"`
	EncryptedPayload string `json:"encryptedPayload"`
}

// RecipientMap routes encrypted blobs: user -> client -> blob.
type RecipientMap map[UserID]map[ClientID]string

// NewOTRMessage is the body posted to a conversation's message endpoint.
type NewOTRMessage struct {
	Sender     ClientID     `json:"sender"`
	Recipients RecipientMap `json:"recipients"`
}

// ClientMismatch is what the backend reports about recipient coverage.
type ClientMismatch struct {
	Time      string      `json:"time"`
	Missing   UserClients `json:"missing"`
	Redundant UserClients `json:"redundant"`
	Deleted   UserClients `json:"deleted"`
}

// Response is a decoded backend reply: the HTTP status and the raw JSON body.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r != nil && r.Status/100 == 2 }

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, out)
}
