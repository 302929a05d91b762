package devbackend

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wirecore/internal/domain"
)

const (
	cookieName = "zuid"
	cookieTTL  = 30 * 24 * time.Hour
)

var errUserExists = errors.New("user exists")

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Label    string `json:"label"`
}

type removeCookiesRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Labels   []string `json:"labels"`
}

type accessToken struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        domain.UserID `json:"user"`
}

// Register creates a user directly, bypassing HTTP. It is meant for seeding.
func (s *Server) Register(email, password, name string) (domain.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.UserProfile{}, err
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if acc, ok := s.state.byEmail[email]; ok {
		return acc.profile, errUserExists
	}
	acc := &account{
		profile: domain.UserProfile{
			ID:     domain.UserID(uuid.NewString()),
			Name:   name,
			Email:  email,
			Locale: "en",
		},
		hash:    hash,
		cookies: make(map[string]string),
	}
	s.state.byEmail[email] = acc
	s.state.byID[acc.profile.ID] = acc
	return acc.profile, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	profile, err := s.Register(req.Email, req.Password, req.Name)
	if errors.Is(err, errUserExists) {
		writeError(w, http.StatusConflict, "key-exists", "email already registered")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server-error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// checkPassword returns the account for email if password matches. Caller
// holds mu.
func (s *Server) checkPassword(email, password string) *account {
	acc, ok := s.state.byEmail[email]
	if !ok {
		return nil
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil
	}
	return acc
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	persist, _ := strconv.ParseBool(r.URL.Query().Get("persist"))

	s.state.mu.Lock()
	acc := s.checkPassword(req.Email, req.Password)
	if acc == nil {
		s.state.mu.Unlock()
		writeError(w, http.StatusForbidden, "invalid-credentials", "Authentication failed.")
		return
	}
	if _, relabel := acc.cookies[req.Label]; !relabel && len(acc.cookies) >= s.opts.MaxCookies {
		s.state.mu.Unlock()
		writeError(w, http.StatusTooManyRequests, "client-error", "Logins too frequent.")
		return
	}
	value := randomHex(32)
	acc.cookies[req.Label] = value
	user := acc.profile.ID
	s.state.mu.Unlock()

	tok, err := s.issueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server-error", err.Error())
		return
	}
	cookie := &http.Cookie{Name: cookieName, Value: value, Path: "/", HttpOnly: true}
	if persist {
		cookie.MaxAge = int(cookieTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, accessToken{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.opts.TokenTTL.Seconds()),
		User:        user,
	})
}

func (s *Server) handleRemoveCookies(w http.ResponseWriter, r *http.Request) {
	var req removeCookiesRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	acc := s.checkPassword(req.Email, req.Password)
	if acc == nil {
		writeError(w, http.StatusForbidden, "invalid-credentials", "Authentication failed.")
		return
	}
	if len(req.Labels) == 0 {
		clear(acc.cookies)
	}
	for _, l := range req.Labels {
		delete(acc.cookies, l)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	s.state.mu.Lock()
	acc, ok := s.state.byID[caller(r)]
	s.state.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "not-found", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, acc.profile)
}
