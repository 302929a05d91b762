package devbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Defaults for Options.
const (
	DefaultMaxCookies = 3
	DefaultTokenTTL   = 15 * time.Minute
)

// Options configures a Server.
type Options struct {
	// Secret signs access tokens. A random secret is used when empty.
	Secret []byte
	// TokenTTL is the lifetime of access tokens.
	TokenTTL time.Duration
	// MaxCookies is how many login cookies a user may hold before logins
	// are rate limited.
	MaxCookies int
}

// Server is the in-memory backend.
type Server struct {
	opts     Options
	state    *state
	hub      *hub
	validate *validator.Validate
	log      *logrus.Entry
	router   *mux.Router
}

// New returns a Server with the given options.
func New(opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		secret, err := randomBytes(32)
		if err != nil {
			return nil, err
		}
		opts.Secret = secret
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.MaxCookies <= 0 {
		opts.MaxCookies = DefaultMaxCookies
	}
	log := logrus.WithField("component", "wire.devbackend")
	s := &Server{
		opts:     opts,
		state:    newState(),
		hub:      newHub(log),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/cookies/remove", s.handleRemoveCookies).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(s.authenticated)
	api.HandleFunc("/self", s.handleSelf).Methods(http.MethodGet)
	api.HandleFunc("/clients", s.handleRegisterClient).Methods(http.MethodPost)
	api.HandleFunc("/clients/{id}", s.handleUpdateClient).Methods(http.MethodPut)
	api.HandleFunc("/connections", s.handleCreateConnection).Methods(http.MethodPost)
	api.HandleFunc("/connections/{id}", s.handleUpdateConnection).Methods(http.MethodPut)
	api.HandleFunc("/conversations", s.handleCreateConversation).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/otr/messages", s.handleOTRMessage).Methods(http.MethodPost)
	api.HandleFunc("/users/prekeys", s.handleClaimPreKeys).Methods(http.MethodPost)
	api.HandleFunc("/await", s.serveAwait).Methods(http.MethodGet)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController and the websocket upgrader reach the
// underlying writer.
func (w *statusRecorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.URL.Path == "/await" {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": time.Since(start),
		}).Info("request")
	})
}

type apiError struct {
	Code    int    `json:"code"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, label, msg string) {
	writeJSON(w, status, apiError{Code: status, Label: label, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v and validates it. On failure it writes a
// 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad-request", err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "bad-request", verr.Error())
			return false
		}
	}
	return true
}
