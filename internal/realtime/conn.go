package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"wirecore/internal/backend"
	"wirecore/internal/domain"
	domaintypes "wirecore/internal/domain/types"
)

const (
	// Time allowed to write a control message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum notification size accepted from the backend.
	maxMessageSize = 1 << 20
)

// Conn is a live notification stream. Notifications are delivered on the
// channel returned by Notifications until the connection ends.
type Conn struct {
	ws   *websocket.Conn
	out  chan domain.Notification
	done chan struct{}
	log  *logrus.Entry

	closeOnce sync.Once
	closeErr  error
}

// AwaitURL builds the notification endpoint for client below base.
func AwaitURL(base string, accessToken string, client domain.ClientID) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/await")
	if err != nil {
		return "", fmt.Errorf("parse websocket url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	q := u.Query()
	q.Set("access_token", accessToken)
	if client != "" {
		q.Set("client", string(client))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens the notification stream for the session's client.
func Dial(ctx context.Context, base string, session *domain.Session) (*Conn, error) {
	if !session.Ready() {
		return nil, domain.ErrSessionNotReady
	}
	target, err := AwaitURL(base, session.AccessToken, session.ClientID())
	if err != nil {
		return nil, err
	}
	hdr := http.Header{}
	hdr.Set("Authorization", backend.BearerHeader(session.AccessToken))

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, target, hdr)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", base, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", base, err)
	}

	c := &Conn{
		ws:   ws,
		out:  make(chan domain.Notification, 32),
		done: make(chan struct{}),
		log:  logrus.WithField("component", "wire.core.realtime"),
	}
	go c.readPump()
	go c.pingLoop()
	return c, nil
}

// Notifications returns the stream of decoded notifications. The channel is
// closed when the connection ends.
func (c *Conn) Notifications() <-chan domain.Notification { return c.out }

// Done is closed once Close was called.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Close sends a close frame and tears the connection down. It is safe to call
// more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

func (c *Conn) readPump() {
	defer close(c.out)
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					c.log.WithError(err).Warn("Notification stream ended.")
				}
			}
			return
		}

		var n domain.Notification
		if err := json.Unmarshal(message, &n); err != nil {
			c.log.WithError(err).Warn("Dropping undecodable notification.")
			continue
		}
		select {
		case c.out <- n:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					c.log.WithError(err).Debug("Ping failed.")
				}
				return
			}
		case <-c.done:
			return
		}
	}
}

// ConnectionEvents extracts the "user.connection" events of n. Other event
// types and malformed entries are skipped.
func ConnectionEvents(n domain.Notification) []domain.ConnectionEvent {
	var out []domain.ConnectionEvent
	for _, raw := range n.Payload {
		if domaintypes.EventType(raw) != domain.EventTypeConnection {
			continue
		}
		var ev domain.ConnectionEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Compile-time assertion that Conn implements domain.RealtimeConn.
var _ domain.RealtimeConn = (*Conn)(nil)
