package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/you/clinicgate/domain"
)

// FileStore implements domain.SessionStore on a single JSON file. It is
// the durable local store for embedded and desktop use.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore creates a file-backed session store at path.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, log: log}
}

// Load implements domain.SessionStore.
func (s *FileStore) Load(_ context.Context) (*domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	sess, ok := decode(data, s.log)
	if !ok {
		os.Remove(s.path)
		return nil, nil
	}
	return sess, nil
}

// Save implements domain.SessionStore. The record is written to a
// temporary file and renamed into place so a crash mid-write never
// leaves a truncated record behind.
func (s *FileStore) Save(_ context.Context, sess *domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Clear implements domain.SessionStore.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
