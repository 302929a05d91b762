package devbackend

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"wirecore/internal/domain"
)

type createConnectionRequest struct {
	User domain.UserID `json:"user" validate:"required"`
}

type updateConnectionRequest struct {
	Status domain.ConnectionStatus `json:"status" validate:"required,oneof=accepted blocked ignored"`
}

type createConversationRequest struct {
	Users []domain.UserID `json:"users" validate:"required,min=1"`
	Name  string          `json:"name"`
}

type conversationView struct {
	ID      domain.ConversationID `json:"id"`
	Name    string                `json:"name,omitempty"`
	Members []domain.UserID       `json:"members"`
}

type connectionEvent struct {
	Type       string            `json:"type"`
	Connection domain.Connection `json:"connection"`
}

type otrMessageEvent struct {
	Type         string                `json:"type"`
	Conversation domain.ConversationID `json:"conversation"`
	From         domain.UserID         `json:"from"`
	Time         string                `json:"time"`
	Data         otrMessageData        `json:"data"`
}

type otrMessageData struct {
	Sender    domain.ClientID `json:"sender"`
	Recipient domain.ClientID `json:"recipient"`
	Text      string          `json:"text"`
}

// handleCreateConnection records a request from the caller to another user.
// The caller's side reads "sent", the other side "pending".
func (s *Server) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	var req createConnectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	from := caller(r)

	s.state.mu.Lock()
	if _, ok := s.state.byID[req.User]; !ok || req.User == from {
		s.state.mu.Unlock()
		writeError(w, http.StatusNotFound, "not-found", "user not found")
		return
	}
	mine := *s.state.setConnection(from, req.User, domain.ConnectionSent, "")
	theirs := *s.state.setConnection(req.User, from, domain.ConnectionPending, "")
	mineTo, theirsTo := s.state.clientsOf(from), s.state.clientsOf(req.User)
	s.state.mu.Unlock()

	s.hub.notify(mineTo, connectionEvent{Type: domain.EventTypeConnection, Connection: mine})
	s.hub.notify(theirsTo, connectionEvent{Type: domain.EventTypeConnection, Connection: theirs})
	writeJSON(w, http.StatusCreated, mine)
}

// handleUpdateConnection changes the caller's view of the connection with
// the user named in the path. Accepting creates the one-to-one conversation.
func (s *Server) handleUpdateConnection(w http.ResponseWriter, r *http.Request) {
	var req updateConnectionRequest
	if !s.decode(w, r, &req) {
		return
	}
	me := caller(r)
	other := domain.UserID(mux.Vars(r)["id"])

	s.state.mu.Lock()
	cur, ok := s.state.connections[me][other]
	if !ok {
		s.state.mu.Unlock()
		writeError(w, http.StatusNotFound, "not-connected", "no connection to user")
		return
	}
	if req.Status == domain.ConnectionAccepted && cur.Status != domain.ConnectionPending && cur.Status != domain.ConnectionAccepted {
		s.state.mu.Unlock()
		writeError(w, http.StatusForbidden, "bad-conn-update", "connection is not pending")
		return
	}

	var theirs domain.Connection
	mine := *cur
	if req.Status == domain.ConnectionAccepted && cur.Status == domain.ConnectionPending {
		conv := &conversation{id: domain.ConversationID(uuid.NewString()), members: []domain.UserID{me, other}}
		s.state.conversations[conv.id] = conv
		mine = *s.state.setConnection(me, other, domain.ConnectionAccepted, conv.id)
		theirs = *s.state.setConnection(other, me, domain.ConnectionAccepted, conv.id)
	} else {
		cur.Status = req.Status
		mine = *cur
	}
	mineTo, theirsTo := s.state.clientsOf(me), s.state.clientsOf(other)
	s.state.mu.Unlock()

	s.hub.notify(mineTo, connectionEvent{Type: domain.EventTypeConnection, Connection: mine})
	if theirs.From != "" {
		s.hub.notify(theirsTo, connectionEvent{Type: domain.EventTypeConnection, Connection: theirs})
	}
	writeJSON(w, http.StatusOK, mine)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if !s.decode(w, r, &req) {
		return
	}
	me := caller(r)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	members := []domain.UserID{me}
	for _, u := range req.Users {
		if _, ok := s.state.byID[u]; !ok {
			writeError(w, http.StatusNotFound, "not-found", "user not found: "+string(u))
			return
		}
		if !slices.Contains(members, u) {
			members = append(members, u)
		}
	}
	conv := &conversation{id: domain.ConversationID(uuid.NewString()), members: members}
	s.state.conversations[conv.id] = conv
	writeJSON(w, http.StatusCreated, conversationView{ID: conv.id, Name: req.Name, Members: members})
}

// handleOTRMessage checks the recipients against every client in the
// conversation other than the sender, then relays each payload.
func (s *Server) handleOTRMessage(w http.ResponseWriter, r *http.Request) {
	var msg domain.NewOTRMessage
	if !s.decode(w, r, &msg) {
		return
	}
	me := caller(r)
	convID := domain.ConversationID(mux.Vars(r)["id"])
	ignoreMissing := r.URL.Query().Get("ignore_missing") == "true"

	s.state.mu.Lock()
	conv, ok := s.state.conversations[convID]
	if !ok || !slices.Contains(conv.members, me) {
		s.state.mu.Unlock()
		writeError(w, http.StatusNotFound, "no-conversation", "conversation not found")
		return
	}
	if c, ok := s.state.clients[msg.Sender]; !ok || c.owner != me {
		s.state.mu.Unlock()
		writeError(w, http.StatusForbidden, "unknown-client", "sender is not a client of the caller")
		return
	}

	mismatch := domain.ClientMismatch{
		Time:      now().Format("2006-01-02T15:04:05.000Z"),
		Missing:   domain.UserClients{},
		Redundant: domain.UserClients{},
		Deleted:   domain.UserClients{},
	}
	type delivery struct {
		to   domain.ClientID
		text string
	}
	var out []delivery
	for _, user := range conv.members {
		for _, id := range s.state.clientsOf(user) {
			if id == msg.Sender {
				continue
			}
			text, named := msg.Recipients[user][id]
			if !named {
				mismatch.Missing[user] = append(mismatch.Missing[user], id)
				continue
			}
			out = append(out, delivery{to: id, text: text})
		}
	}
	for user, byClient := range msg.Recipients {
		for id := range byClient {
			c, known := s.state.clients[id]
			switch {
			case !known:
				mismatch.Deleted[user] = append(mismatch.Deleted[user], id)
			case c.owner != user || !slices.Contains(conv.members, user):
				mismatch.Redundant[user] = append(mismatch.Redundant[user], id)
			}
		}
	}
	s.state.mu.Unlock()

	if len(mismatch.Missing) > 0 && !ignoreMissing {
		writeJSON(w, http.StatusPreconditionFailed, mismatch)
		return
	}
	for _, d := range out {
		s.hub.notify([]domain.ClientID{d.to}, otrMessageEvent{
			Type:         "conversation.otr-message-add",
			Conversation: convID,
			From:         me,
			Time:         mismatch.Time,
			Data:         otrMessageData{Sender: msg.Sender, Recipient: d.to, Text: d.text},
		})
	}
	writeJSON(w, http.StatusCreated, mismatch)
}
