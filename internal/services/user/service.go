package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"wirecore/internal/domain"
)

// DefaultMaxLoginRetries bounds how often a rate-limited login is retried.
const DefaultMaxLoginRetries = 1

// Service implements the session bootstrap.
type Service struct {
	api      domain.BackendAPI
	keys     domain.KeyStore
	validate *validator.Validate
	log      *logrus.Entry

	maxLoginRetries int

	mu       sync.Mutex
	realtime domain.RealtimeConn
}

// Option configures a Service.
type Option func(*Service)

// WithMaxLoginRetries sets the number of retries after a 429 on login.
// Negative values are treated as zero.
func WithMaxLoginRetries(n int) Option {
	return func(s *Service) {
		if n < 0 {
			n = 0
		}
		s.maxLoginRetries = n
	}
}

// WithLogger replaces the default component logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Service) { s.log = l }
}

// New returns a Service using api for backend calls and keys for key material.
func New(api domain.BackendAPI, keys domain.KeyStore, opts ...Option) *Service {
	s := &Service{
		api:             api,
		keys:            keys,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		log:             logrus.WithField("component", "wire.core.user"),
		maxLoginRetries: DefaultMaxLoginRetries,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AttachRealtime binds the live notification connection that Logout tears
// down. Passing nil detaches it.
func (s *Service) AttachRealtime(conn domain.RealtimeConn) {
	s.mu.Lock()
	s.realtime = conn
	s.mu.Unlock()
}

// Login authenticates, provisions keys, registers a client and returns the
// user's profile. session is updated in place as each step completes.
func (s *Service) Login(ctx context.Context, session *domain.Session) (domain.UserProfile, error) {
	resp, err := s.login(ctx, session)
	if err != nil {
		return domain.UserProfile{}, err
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		User        string `json:"user"`
	}
	if err := resp.Decode(&tok); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode login response: %w", err)
	}
	if tok.AccessToken == "" {
		return domain.UserProfile{}, &AuthenticationError{Response: resp}
	}
	session.AccessToken = tok.AccessToken
	s.log.WithField("expires_in", tok.ExpiresIn).Infof("Access Token is %q.", redact(tok.AccessToken))

	if err := s.provisionPreKeys(session); err != nil {
		return domain.UserProfile{}, err
	}
	if err := s.provisionSignalingKeys(session); err != nil {
		return domain.UserProfile{}, err
	}
	if err := s.registerClient(ctx, session); err != nil {
		return domain.UserProfile{}, err
	}
	return s.fetchSelf(ctx, session)
}

// login issues the login request, removing cookies and retrying on 429 at
// most maxLoginRetries times.
func (s *Service) login(ctx context.Context, session *domain.Session) (*domain.Response, error) {
	creds := session.Credentials
	creds.Label = session.ClientInfo.Cookie

	for attempt := 1; ; attempt++ {
		resp, err := s.api.Login(ctx, creds)
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
		switch {
		case resp.Status == http.StatusTooManyRequests:
			if attempt > s.maxLoginRetries {
				return nil, &RateLimitError{Attempts: attempt, Response: resp}
			}
			s.log.Warn("Logins are too frequent. Removing the user's cookies on all clients before retrying...")
			rm, err := s.api.RemoveCookies(ctx, session.Credentials, nil)
			if err != nil {
				return nil, fmt.Errorf("remove cookies after rate limit: %w", err)
			}
			if !rm.OK() {
				s.log.WithField("status", rm.Status).Warn("Cookie removal was not accepted, retrying login anyway.")
			}
		case !resp.OK():
			return nil, &AuthenticationError{Response: resp}
		default:
			return resp, nil
		}
	}
}

// provisionPreKeys initialises the key store and puts the serialized
// last-resort key and the regular prekeys on the client descriptor.
func (s *Service) provisionPreKeys(session *domain.Session) error {
	initial, err := s.keys.Init()
	if err != nil {
		return fmt.Errorf("init key store: %w", err)
	}
	fp, err := s.keys.Fingerprint()
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}
	s.log.Infof("Public fingerprint is %q.", fp)

	last, err := s.keys.LastResortPreKey()
	if err != nil {
		return fmt.Errorf("last resort prekey: %w", err)
	}
	lastKey, err := s.keys.SerializePreKey(last)
	if err != nil {
		return fmt.Errorf("serialize last resort prekey: %w", err)
	}
	preKeys, err := s.serializePreKeys(initial)
	if err != nil {
		return err
	}

	session.ClientInfo.LastKey = &lastKey
	session.ClientInfo.PreKeys = preKeys
	return nil
}

// serializePreKeys serializes pks and drops the last-resort sentinel.
func (s *Service) serializePreKeys(pks []domain.PreKey) ([]domain.SerializedPreKey, error) {
	out := make([]domain.SerializedPreKey, 0, len(pks))
	for _, pk := range pks {
		ser, err := s.keys.SerializePreKey(pk)
		if err != nil {
			return nil, fmt.Errorf("serialize prekey %d: %w", pk.ID, err)
		}
		if ser.ID.IsLastResort() {
			continue
		}
		out = append(out, ser)
	}
	return out, nil
}

func (s *Service) provisionSignalingKeys(session *domain.Session) error {
	s.log.Info("Creating signaling keys...")
	keys, err := s.keys.GenerateSignalingKeys()
	if err != nil {
		return fmt.Errorf("generate signaling keys: %w", err)
	}
	session.ClientInfo.SigKeys = &keys
	s.log.Info("Created signaling keys.")
	return nil
}

func (s *Service) registerClient(ctx context.Context, session *domain.Session) error {
	info := session.ClientInfo
	if err := s.validateClientInfo(info); err != nil {
		return err
	}
	if info.Type == domain.ClientTypePermanent {
		info.Password = session.Credentials.Password
	}

	s.log.Infof("Registering new %s %s client with cookie label %q...", info.Type, info.Class, info.Cookie)
	resp, err := s.api.RegisterClient(ctx, session.AccessToken, info)
	if err != nil {
		return fmt.Errorf("register client: %w", err)
	}
	if !resp.OK() {
		return &RegistrationError{Op: "register client", Response: resp}
	}
	var rec domain.ClientRecord
	if err := resp.Decode(&rec); err != nil {
		return fmt.Errorf("decode client record: %w", err)
	}
	if rec.ID == "" {
		return &RegistrationError{Op: "register client", Response: resp}
	}
	session.Client = &rec
	s.log.Infof("Registered client (ID %q).", rec.ID)
	return nil
}

var (
	errSentinelInBatch  = errors.New("prekey batch contains the last resort prekey id")
	errLastKeyNotMarked = errors.New("last resort prekey does not carry the last resort id")
)

func (s *Service) validateClientInfo(info domain.ClientInfo) error {
	if err := s.validate.Struct(info); err != nil {
		return fmt.Errorf("invalid client descriptor: %w", err)
	}
	if !info.LastKey.ID.IsLastResort() {
		return fmt.Errorf("invalid client descriptor: %w", errLastKeyNotMarked)
	}
	for _, pk := range info.PreKeys {
		if pk.ID.IsLastResort() {
			return fmt.Errorf("invalid client descriptor: %w", errSentinelInBatch)
		}
	}
	return nil
}

func (s *Service) fetchSelf(ctx context.Context, session *domain.Session) (domain.UserProfile, error) {
	resp, err := s.api.GetSelf(ctx, session.AccessToken)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get self: %w", err)
	}
	if !resp.OK() {
		return domain.UserProfile{}, &AuthenticationError{Response: resp}
	}
	var self domain.UserProfile
	if err := resp.Decode(&self); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode self: %w", err)
	}
	session.Self = &self
	return self, nil
}

// Logout revokes the session's login cookie. Only an HTTP 200 counts as
// logged out: the real-time connection is then closed and the session
// cleared. Any other status yields *LogoutIncompleteError.
func (s *Service) Logout(ctx context.Context, session *domain.Session) error {
	s.log.Infof("Logging out user with ID %q.", session.SelfID())
	resp, err := s.api.RemoveCookies(ctx, session.Credentials, []string{session.ClientInfo.Cookie})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if resp.Status != http.StatusOK {
		return &LogoutIncompleteError{Response: resp}
	}

	s.mu.Lock()
	conn := s.realtime
	s.realtime = nil
	s.mu.Unlock()
	if conn != nil {
		if err := conn.Close(); err != nil {
			s.log.WithError(err).Warn("Closing the real-time connection failed.")
		}
	}
	session.Reset()
	return nil
}

// UploadPreKeys submits a replenishment batch for the session's client.
// Only HTTP 200 is success; anything else is a *RegistrationError carrying
// the raw response.
func (s *Service) UploadPreKeys(
	ctx context.Context,
	session *domain.Session,
	preKeys []domain.SerializedPreKey,
) (json.RawMessage, error) {
	if !session.Ready() {
		return nil, domain.ErrSessionNotReady
	}
	s.log.Infof("Uploading %d new prekey(s) to the backend...", len(preKeys))
	resp, err := s.api.UpdateClient(ctx, session.AccessToken, session.ClientID(), preKeys)
	if err != nil {
		return nil, fmt.Errorf("upload prekeys: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, &RegistrationError{Op: "upload prekeys", Response: resp}
	}
	return resp.Body, nil
}

// ReplenishPreKeys creates count new prekeys and uploads them. count must be
// positive.
func (s *Service) ReplenishPreKeys(
	ctx context.Context,
	session *domain.Session,
	count int,
) ([]domain.SerializedPreKey, error) {
	if count <= 0 {
		return nil, fmt.Errorf("replenish prekeys: count %d must be positive", count)
	}
	if !session.Ready() {
		return nil, domain.ErrSessionNotReady
	}
	fresh, err := s.keys.NewPreKeys(count)
	if err != nil {
		return nil, fmt.Errorf("new prekeys: %w", err)
	}
	serialized, err := s.serializePreKeys(fresh)
	if err != nil {
		return nil, err
	}
	if _, err := s.UploadPreKeys(ctx, session, serialized); err != nil {
		return nil, err
	}
	return serialized, nil
}

// Fingerprint returns the local identity fingerprint.
func (s *Service) Fingerprint() (domain.Fingerprint, error) {
	return s.keys.Fingerprint()
}

func redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// Compile-time assertion that Service implements domain.UserService.
var _ domain.UserService = (*Service)(nil)
