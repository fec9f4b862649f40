// Package storage persists the backend session token across process
// restarts. One JSON file maps user ids to their last-written token; the
// file, not any in-memory cache, is the source of truth on read.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore is a file-backed user→session-token map.
type TokenStore struct {
	mu   sync.Mutex
	path string
}

// DefaultPath returns the token file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "companion", "sessions.json"), nil
}

// NewTokenStore creates a store writing to path. The file is created on
// first Save.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load returns the persisted token for userID, and whether one exists.
func (s *TokenStore) Load(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := s.read()
	if err != nil {
		return "", false
	}
	token, ok := tokens[userID]
	return token, ok && token != ""
}

// Save persists the token for userID, replacing any previous value.
func (s *TokenStore) Save(userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := s.read()
	if err != nil {
		return err
	}
	tokens[userID] = token
	return s.write(tokens)
}

// Clear removes the persisted token for userID. Clearing an absent entry
// is a no-op.
func (s *TokenStore) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := tokens[userID]; !ok {
		return nil
	}
	delete(tokens, userID)
	return s.write(tokens)
}

func (s *TokenStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token store: %w", err)
	}
	tokens := map[string]string{}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parsing token store: %w", err)
	}
	return tokens, nil
}

// write replaces the file via a temp-file rename so a crash mid-write
// cannot truncate existing tokens.
func (s *TokenStore) write(tokens map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing token store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing token store: %w", err)
	}
	return nil
}
