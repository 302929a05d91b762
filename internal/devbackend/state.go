package devbackend

import (
	"sort"
	"sync"
	"time"

	"wirecore/internal/domain"
)

type account struct {
	profile domain.UserProfile
	hash    []byte
	cookies map[string]string // label -> cookie value
}

type client struct {
	record  domain.ClientRecord
	owner   domain.UserID
	lastKey domain.SerializedPreKey
	preKeys []domain.SerializedPreKey
}

type conversation struct {
	id      domain.ConversationID
	members []domain.UserID
}

// state is the whole in-memory backend. All fields are guarded by mu.
type state struct {
	mu sync.Mutex

	byEmail       map[string]*account
	byID          map[domain.UserID]*account
	clients       map[domain.ClientID]*client
	connections   map[domain.UserID]map[domain.UserID]*domain.Connection // owner -> other
	conversations map[domain.ConversationID]*conversation
}

func newState() *state {
	return &state{
		byEmail:       make(map[string]*account),
		byID:          make(map[domain.UserID]*account),
		clients:       make(map[domain.ClientID]*client),
		connections:   make(map[domain.UserID]map[domain.UserID]*domain.Connection),
		conversations: make(map[domain.ConversationID]*conversation),
	}
}

// clientsOf lists a user's client ids in a stable order. Caller holds mu.
func (s *state) clientsOf(user domain.UserID) []domain.ClientID {
	var out []domain.ClientID
	for id, c := range s.clients {
		if c.owner == user {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// claimPreKey pops the first regular prekey of c, falling back to the
// last-resort key once they run out. Caller holds mu.
func (c *client) claimPreKey() *domain.SerializedPreKey {
	if len(c.preKeys) == 0 {
		lk := c.lastKey
		return &lk
	}
	pk := c.preKeys[0]
	c.preKeys = c.preKeys[1:]
	return &pk
}

// setConnection records both users' views of a connection. Caller holds mu.
func (s *state) setConnection(owner, other domain.UserID, status domain.ConnectionStatus, conv domain.ConversationID) *domain.Connection {
	if s.connections[owner] == nil {
		s.connections[owner] = make(map[domain.UserID]*domain.Connection)
	}
	c := &domain.Connection{From: owner, To: other, Status: status, Conversation: conv}
	s.connections[owner][other] = c
	return c
}

func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
