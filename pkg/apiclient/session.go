// Package apiclient is the Go client SDK for the blogging API. It holds
// the caller's session (access token plus user), attaches the token to
// every request, and transparently recovers from access-token expiry with
// a single silent refresh-and-replay.
package apiclient

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// User is the client-side view of an account profile.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// Session is the in-memory auth state: the current access token and the
// user it belongs to. The refresh token never appears here; it lives in
// the HTTP cookie jar.
type Session struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

// SessionStore persists the session across process restarts.
type SessionStore interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// MemorySessionStore keeps the session in process memory only.
type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	clone := *s.session
	return &clone, nil
}

func (s *MemorySessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.session = &clone
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// FileSessionStore mirrors the session into a JSON file, the durable
// storage analogue of the browser's localStorage.
type FileSessionStore struct {
	mu   sync.Mutex
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt session file is discarded, not fatal.
		_ = os.Remove(s.path)
		return nil, nil
	}
	return &session, nil
}

func (s *FileSessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
