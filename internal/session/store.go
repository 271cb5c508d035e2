// Package session holds the single session token slot and its pluggable
// persistence.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"tdash/internal/config"
)

// TokenKey is the key the token is stored under.
const TokenKey = "token"

// ErrNoToken is returned by Store.Load when no token is held.
var ErrNoToken = errors.New("no session token")

// Store persists at most one token. Save overwrites, Clear is idempotent.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

// OpenStore opens the store selected by cfg.Settings.SessionStore.
func OpenStore(cfg *config.Config) (Store, error) {
	switch cfg.Settings.SessionStore {
	case config.StoreFile, "":
		return NewFileStore(cfg.SessionPath()), nil
	case config.StoreSQLite:
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		return OpenSQLiteStore(cfg.SessionDBPath())
	case config.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store: %s", cfg.Settings.SessionStore)
	}
}

// FileStore keeps the token in a JSON file written with mode 0600.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
// The parent directory is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type fileData struct {
	Token string `json:"token"`
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return "", fmt.Errorf("invalid session file: %w", err)
	}
	if fd.Token == "" {
		return "", ErrNoToken
	}
	return fd.Token, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(fileData{Token: token}, "", "  ")
	if err != nil {
		return err
	}

	// The file is always 0600 and replaced whole.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

// MemoryStore keeps the token in process memory only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
