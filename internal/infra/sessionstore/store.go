// Package sessionstore persists the login session in a JSON file.
package sessionstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure Store implements domain.SessionStore.
var _ domain.SessionStore = (*Store)(nil)

// fileData is the on-disk layout.
type fileData struct {
	Session *domain.Session `json:"session"`
	SavedAt time.Time       `json:"saved_at"`
}

// Store keeps the session in a file guarded by an flock, so concurrent
// taskdesk processes never observe a half-written session.
type Store struct {
	now      func() time.Time
	path     string
	lockPath string
}

// New creates a Store for the given file path.
// The file does not need to exist; it is created on Save.
func New(path string) *Store {
	return &Store{
		now:      time.Now,
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved session, or nil when nobody is logged in.
func (s *Store) Load() (*domain.Session, error) {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(lock)

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var data fileData
	if err := sonic.ConfigStd.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if data.Session.IsAnonymous() {
		return nil, nil
	}
	return data.Session, nil
}

// Save writes the session atomically.
func (s *Store) Save(session domain.Session) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	content, err := sonic.ConfigStd.MarshalIndent(fileData{Session: &session, SavedAt: s.now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}
