package conversation

import (
	"strings"

	"wirecore/internal/domain"
)

// BuildRecipientMap groups payloads by user and client. Session ids are split
// on the first "@". When two payloads name the same device the later one
// wins. The result is never nil.
func BuildRecipientMap(payloads []domain.RecipientPayload) domain.RecipientMap {
	out := make(domain.RecipientMap, len(payloads))
	for _, p := range payloads {
		userID, clientID, _ := strings.Cut(p.SessionID, "@")
		u := domain.UserID(userID)
		if out[u] == nil {
			out[u] = make(map[domain.ClientID]string)
		}
		out[u][domain.ClientID(clientID)] = p.EncryptedPayload
	}
	return out
}

// DeliveryTolerance is the value of the backend's ignore_missing flag.
//
// With the flag false the backend checks the recipients against the
// conversation's devices and answers 412 with the missing ones. With the
// flag true it delivers to whoever was named. An empty send has nobody to
// deliver to, so it is sent strict: the 412 tells the caller which devices
// it needs prekeys for. A non-empty send is sent tolerant so a partial
// recipient list still gets through.
type DeliveryTolerance bool

const (
	// StrictIfEmpty is used when the recipient map is empty.
	StrictIfEmpty DeliveryTolerance = false
	// TolerantIfAny is used when the map names at least one user.
	TolerantIfAny DeliveryTolerance = true
)

// DeliveryToleranceFor picks the tolerance for a recipient map.
func DeliveryToleranceFor(recipients domain.RecipientMap) DeliveryTolerance {
	if len(recipients) == 0 {
		return StrictIfEmpty
	}
	return TolerantIfAny
}

// IgnoreMissing is the wire value of the flag.
func (t DeliveryTolerance) IgnoreMissing() bool { return bool(t) }

func (t DeliveryTolerance) String() string {
	if t {
		return "tolerant"
	}
	return "strict"
}
