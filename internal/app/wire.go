package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"wirecore/internal/backend"
	"wirecore/internal/domain"
	"wirecore/internal/keystore"
	"wirecore/internal/realtime"
	"wirecore/internal/services/conversation"
	"wirecore/internal/services/user"
	"wirecore/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config        Config
	Keys          domain.KeyStore
	Sessions      domain.SessionStore
	Backend       domain.BackendAPI
	Users         *user.Service
	Conversations *conversation.Service
	HTTP          *http.Client

	closers []io.Closer
}

// NewWire constructs the dependency graph from cfg. cfg must have been
// prepared. hc may be nil.
func NewWire(cfg Config, hc *http.Client) (*Wire, error) {
	keyStore := store.NewKeyFileStore(cfg.Home)
	keys := keystore.New(keyStore, keyStore, cfg.Passphrase, cfg.InitialPreKeys)

	w := &Wire{Config: cfg, Keys: keys}

	switch cfg.SessionStore {
	case "", SessionStoreFile:
		w.Sessions = store.NewSessionFileStore(cfg.Home)
	case SessionStoreRedis:
		rs := store.NewRedisSessionStore(cfg.Redis.Addr, cfg.Redis.TTL)
		w.Sessions = rs
		w.closers = append(w.closers, rs)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}

	// Ensure an HTTP client is available for outbound calls
	if hc == nil {
		hc = &http.Client{Timeout: cfg.RequestTimeout}
	}
	api := backend.NewHTTP(cfg.BackendURL, hc)

	w.HTTP = api.HTTP
	w.Backend = api
	w.Users = user.New(api, keys, user.WithMaxLoginRetries(cfg.MaxLoginRetries))
	w.Conversations = conversation.New(api)
	return w, nil
}

// LoadSession returns the stored session for the configured account, or a
// fresh one when nothing is stored. Credentials always come from the config.
func (w *Wire) LoadSession() (*domain.Session, error) {
	fresh := w.Config.NewSession()
	stored, ok, err := w.Sessions.LoadSession(w.Config.Email)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return fresh, nil
	}
	stored.Credentials = fresh.Credentials
	if stored.BackendURL == "" {
		stored.BackendURL = fresh.BackendURL
	}
	return &stored, nil
}

// SaveSession persists the session state.
func (w *Wire) SaveSession(s *domain.Session) error {
	return w.Sessions.SaveSession(*s)
}

// ForgetSession removes the stored session state for the configured account.
func (w *Wire) ForgetSession() error {
	return w.Sessions.DeleteSession(w.Config.Email)
}

// DialRealtime opens the notification stream for s and binds it to the user
// service so that logout closes it.
func (w *Wire) DialRealtime(ctx context.Context, s *domain.Session) (*realtime.Conn, error) {
	conn, err := realtime.Dial(ctx, w.Config.WebsocketURL, s)
	if err != nil {
		return nil, err
	}
	w.Users.AttachRealtime(conn)
	return conn, nil
}

// Close releases resources held by the stores.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
