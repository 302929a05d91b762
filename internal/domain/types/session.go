package types

import (
	"encoding/json"
	"time"
)

// Credentials authenticate a user against the backend.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Label names the cookie the backend issues on login.
	Label string `json:"label,omitempty"`
}

// SignalingKeys are the symmetric keys used to authenticate and decrypt
// push notifications for a client.
type SignalingKeys struct {
	EncKey string `json:"enckey" validate:"required,base64"`
	MacKey string `json:"mackey" validate:"required,base64"`
}

// Client types and classes accepted by the backend.
const (
	ClientTypePermanent = "permanent"
	ClientTypeTemporary = "temporary"

	ClientClassDesktop = "desktop"
	ClientClassPhone   = "phone"
	ClientClassTablet  = "tablet"
)

// ClientInfo describes the device to register. It is filled in step by step
// during login: prekeys and last-resort key after key generation, signaling
// keys after that.
type ClientInfo struct {
	Type     string             `json:"type" validate:"required,oneof=permanent temporary"`
	Class    string             `json:"class" validate:"required,oneof=desktop phone tablet"`
	Model    string             `json:"model,omitempty"`
	Label    string             `json:"label,omitempty"`
	Cookie   string             `json:"cookie" validate:"required"`
	Password string             `json:"password,omitempty"`
	LastKey  *SerializedPreKey  `json:"lastkey" validate:"required"`
	PreKeys  []SerializedPreKey `json:"prekeys" validate:"required,min=1,unique=ID,dive"`
	SigKeys  *SignalingKeys     `json:"sigkeys" validate:"required"`
}

// ClientRecord is the backend's view of a registered client.
type ClientRecord struct {
	ID       ClientID  `json:"id"`
	Type     string    `json:"type"`
	Class    string    `json:"class,omitempty"`
	Model    string    `json:"model,omitempty"`
	Label    string    `json:"label,omitempty"`
	Cookie   string    `json:"cookie,omitempty"`
	Time     time.Time `json:"time"`
	Location *Location `json:"location,omitempty"`
}

// Location is the coarse position the backend records for a client.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// UserProfile is the authenticated user's own profile.
type UserProfile struct {
	ID       UserID `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Handle   string `json:"handle,omitempty"`
	AccentID int    `json:"accent_id"`
	Locale   string `json:"locale,omitempty"`
}

// Session is the authenticated user context. It is owned by the caller and
// mutated in place by the login pipeline; nothing else writes to it except
// logout, which clears it.
type Session struct {
	BackendURL  string        `json:"backend_url"`
	Credentials Credentials   `json:"-"`
	AccessToken string        `json:"access_token,omitempty"`
	ClientInfo  ClientInfo    `json:"client_info"`
	Client      *ClientRecord `json:"client,omitempty"`
	Self        *UserProfile  `json:"self,omitempty"`
}

// MarshalJSON is the persisted form of the session. The client descriptor
// keeps its identifying fields only: prekeys, signaling keys and the
// registration password stay out of session stores.
func (s Session) MarshalJSON() ([]byte, error) {
	type persisted Session
	p := persisted(s)
	p.ClientInfo.Password = ""
	p.ClientInfo.LastKey = nil
	p.ClientInfo.PreKeys = nil
	p.ClientInfo.SigKeys = nil
	return json.Marshal(p)
}

// ClientID returns the registered client id, or "" before registration.
func (s *Session) ClientID() ClientID {
	if s.Client == nil {
		return ""
	}
	return s.Client.ID
}

// SelfID returns the authenticated user's id, or "" before login completed.
func (s *Session) SelfID() UserID {
	if s.Self == nil {
		return ""
	}
	return s.Self.ID
}

// Ready reports whether the session holds both an access token and a
// registered client.
func (s *Session) Ready() bool {
	return s.AccessToken != "" && s.ClientID() != ""
}

// Reset drops everything a login put on the session.
func (s *Session) Reset() {
	s.AccessToken = ""
	s.Client = nil
	s.Self = nil
	s.ClientInfo.LastKey = nil
	s.ClientInfo.PreKeys = nil
	s.ClientInfo.SigKeys = nil
}
