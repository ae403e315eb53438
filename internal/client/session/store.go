package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
)

// Session is the persisted credential. Token and profile live in one document
// so they are written and cleared together.
type Session struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user,omitempty"`
}

// Store persists the session across restarts. Get returns nil, nil when
// there is no session.
type Store interface {
	Get() (*Session, error)
	Set(Session) error
	Clear() error
}

type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get() (*Session, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if sess.Token == "" {
		return nil, nil
	}

	return &sess, nil
}

// Set replaces the session document atomically.
func (s *FileStore) Set(sess Session) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0o600)
	}
	if err == nil {
		err = os.Rename(tmpName, s.path)
	}

	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// Clear removes the session document. A missing document is not an error.
func (s *FileStore) Clear() error {

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

type MemoryStore struct {
	mu   sync.Mutex
	sess *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return nil, nil
	}

	cp := *s.sess
	return &cp, nil
}

func (s *MemoryStore) Set(sess Session) error {
	s.mu.Lock()
	s.sess = &sess
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()
	return nil
}
