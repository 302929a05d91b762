package devbackend

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"wirecore/internal/domain"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type listener struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *listener) send(n domain.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return l.conn.WriteJSON(n)
}

// maxPending bounds the notifications kept for a client that is offline.
const maxPending = 256

// hub tracks the open notification streams per client. Notifications for a
// client without a stream are kept and flushed when it connects.
type hub struct {
	mu        sync.Mutex
	listeners map[domain.ClientID]*listener
	pending   map[domain.ClientID][]domain.Notification
	log       *logrus.Entry
}

func newHub(log *logrus.Entry) *hub {
	return &hub{
		listeners: make(map[domain.ClientID]*listener),
		pending:   make(map[domain.ClientID][]domain.Notification),
		log:       log,
	}
}

func (h *hub) add(id domain.ClientID, conn *websocket.Conn) *listener {
	l := &listener{conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.listeners[id]; ok {
		_ = old.conn.Close()
	}
	h.listeners[id] = l
	for _, n := range h.pending[id] {
		if err := l.send(n); err != nil {
			h.log.WithError(err).WithField("client", id).Warn("Queued notification not delivered.")
			break
		}
	}
	delete(h.pending, id)
	return l
}

func (h *hub) remove(id domain.ClientID, l *listener) {
	h.mu.Lock()
	if h.listeners[id] == l {
		delete(h.listeners, id)
	}
	h.mu.Unlock()
	_ = l.conn.Close()
}

// notify sends one notification carrying payload to each listed client,
// queueing it for clients that are not connected.
func (h *hub) notify(clients []domain.ClientID, payload ...any) {
	n, err := notification(payload...)
	if err != nil {
		h.log.WithError(err).Error("Encoding notification failed.")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range clients {
		l := h.listeners[id]
		if l == nil {
			if q := h.pending[id]; len(q) < maxPending {
				h.pending[id] = append(q, n)
			}
			continue
		}
		if err := l.send(n); err != nil {
			h.log.WithError(err).WithField("client", id).Warn("Notification not delivered.")
		}
	}
}

func notification(payload ...any) (domain.Notification, error) {
	n := domain.Notification{ID: uuid.NewString()}
	for _, p := range payload {
		raw, err := marshal(p)
		if err != nil {
			return domain.Notification{}, err
		}
		n.Payload = append(n.Payload, raw)
	}
	return n, nil
}

// serveAwait upgrades the request and keeps the stream registered until the
// peer goes away.
func (s *Server) serveAwait(w http.ResponseWriter, r *http.Request) {
	user := caller(r)
	id := domain.ClientID(r.URL.Query().Get("client"))

	s.state.mu.Lock()
	c, ok := s.state.clients[id]
	s.state.mu.Unlock()
	if !ok || c.owner != user {
		writeError(w, http.StatusNotFound, "client-not-found", "unknown client")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket upgrade failed.")
		return
	}
	l := s.hub.add(id, conn)
	defer s.hub.remove(id, l)
	s.log.WithField("client", id).Info("Notification stream opened.")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.log.WithField("client", id).Info("Notification stream closed.")
			return
		}
	}
}
