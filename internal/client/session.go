package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// SessionFile persists the session token between REPL runs so the admin
// does not have to log in every time. The server decides whether a saved
// token is still valid.
type SessionFile struct {
	Server string `json:"server"`
	Token  string `json:"token"`

	path string
	mu   sync.Mutex
}

// NewSessionFile returns a SessionFile stored at path.
func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// DefaultSessionPath is ~/.flashcards/session.json, or session.json in the
// working directory when there is no home directory.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".flashcards", "session.json")
}

// Load reads the file. A missing file leaves the session empty.
func (s *SessionFile) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.Server, s.Token = "", ""
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s)
}

// TokenFor returns the saved token if it was issued by server.
func (s *SessionFile) TokenFor(server string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Server != server {
		return ""
	}
	return s.Token
}

// Save records token for server and writes the file with owner-only
// permissions. An empty token removes the file.
func (s *SessionFile) Save(server, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Server, s.Token = server, token
	if token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
