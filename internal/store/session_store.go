package store

import (
	"path/filepath"
	"sync"

	"wirecore/internal/domain"
)

// sessionIndex maps an account email to its saved session.
type sessionIndex map[string]domain.Session

// SessionFileStore keeps every account's session in one JSON file under the
// home directory. Passwords are tagged out of the JSON form and never land
// on disk.
type SessionFileStore struct {
	path string
	mu   sync.Mutex
}

// NewSessionFileStore returns a store writing dir/sessions.json.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{path: filepath.Join(dir, "sessions.json")}
}

func (s *SessionFileStore) SaveSession(session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateJSON(s.path, func(idx *sessionIndex) {
		if *idx == nil {
			*idx = sessionIndex{}
		}
		(*idx)[session.Credentials.Email] = session
	})
}

// LoadSession returns the session saved for email, if any.
func (s *SessionFileStore) LoadSession(email string) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx sessionIndex
	if err := loadJSON(s.path, &idx); err != nil {
		return domain.Session{}, false, err
	}
	session, ok := idx[email]
	session.Credentials.Email = email
	return session, ok, nil
}

func (s *SessionFileStore) DeleteSession(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateJSON(s.path, func(idx *sessionIndex) { delete(*idx, email) })
}

var _ domain.SessionStore = (*SessionFileStore)(nil)
