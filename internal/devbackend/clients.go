package devbackend

import (
	"net/http"

	"github.com/gorilla/mux"

	"wirecore/internal/domain"
)

type updateClientRequest struct {
	PreKeys []domain.SerializedPreKey `json:"prekeys" validate:"required,min=1,dive"`
}

func (s *Server) handleRegisterClient(w http.ResponseWriter, r *http.Request) {
	var info domain.ClientInfo
	if !s.decode(w, r, &info) {
		return
	}
	user := caller(r)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	acc, ok := s.state.byID[user]
	if !ok {
		writeError(w, http.StatusNotFound, "not-found", "user not found")
		return
	}
	if info.Type == domain.ClientTypePermanent {
		if s.checkPassword(acc.profile.Email, info.Password) == nil {
			writeError(w, http.StatusForbidden, "invalid-credentials", "password required for permanent clients")
			return
		}
	}
	if !info.LastKey.ID.IsLastResort() {
		writeError(w, http.StatusBadRequest, "bad-request", "lastkey must use the last resort id")
		return
	}

	c := &client{
		record: domain.ClientRecord{
			ID:     domain.ClientID(randomHex(8)),
			Type:   info.Type,
			Class:  info.Class,
			Model:  info.Model,
			Label:  info.Label,
			Cookie: info.Cookie,
			Time:   now(),
		},
		owner:   user,
		lastKey: *info.LastKey,
		preKeys: append([]domain.SerializedPreKey(nil), info.PreKeys...),
	}
	s.state.clients[c.record.ID] = c
	s.log.WithField("user", user).WithField("client", c.record.ID).Info("Client registered.")
	writeJSON(w, http.StatusCreated, c.record)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := domain.ClientID(mux.Vars(r)["id"])

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	c, ok := s.state.clients[id]
	if !ok || c.owner != caller(r) {
		writeError(w, http.StatusNotFound, "client-not-found", "unknown client")
		return
	}
	for _, pk := range req.PreKeys {
		if pk.ID.IsLastResort() {
			writeError(w, http.StatusBadRequest, "bad-request", "last resort prekey in batch")
			return
		}
	}
	c.preKeys = append(c.preKeys, req.PreKeys...)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleClaimPreKeys(w http.ResponseWriter, r *http.Request) {
	var req domain.UserClients
	if !s.decode(w, r, &req) {
		return
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	out := domain.PreKeyMap{}
	for user, ids := range req {
		out[user] = make(map[domain.ClientID]*domain.SerializedPreKey, len(ids))
		for _, id := range ids {
			c, ok := s.state.clients[id]
			if !ok || c.owner != user {
				out[user][id] = nil
				continue
			}
			out[user][id] = c.claimPreKey()
		}
	}
	writeJSON(w, http.StatusOK, out)
}
