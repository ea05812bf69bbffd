// Package credstore persists session credentials in a file shared by the
// interactive and the background process.
package credstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ratewatch/ratewatch/internal/model"
)

// Credential store keys. Shared with the background process; do not rename.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
	KeyUserEmail    = "userEmail"
)

// FileStore keeps credentials as a 0600 JSON file. Writes go through a
// temp file and an atomic rename, so a concurrent writer in the other
// process resolves to last-write-wins rather than a torn file. Reads
// always hit the filesystem; the other process may have written since the
// last call, so an in-memory copy would go stale.
//
// Failures degrade to "absent": a missing, unreadable, or corrupt file
// behaves like an empty store, forcing callers to treat the session as
// unauthenticated.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at the given path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("credstore: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Put stores a single value under key.
func (s *FileStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	values[key] = value
	s.write(values)
}

// Get returns the value for key and whether it is present.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.read()[key]
	return value, ok && value != ""
}

// Remove deletes a single key.
func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	delete(values, key)
	s.write(values)
}

// Clear removes the whole session.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to clear credentials", "path", s.path, "error", err)
	}
}

// IsAuthenticated reports whether both the access and the refresh token
// are present.
func (s *FileStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	return values[KeyAccessToken] != "" && values[KeyRefreshToken] != ""
}

// SaveCredentials writes the whole session in one atomic update.
func (s *FileStore) SaveCredentials(creds model.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	values[KeyAccessToken] = creds.AccessToken
	values[KeyRefreshToken] = creds.RefreshToken
	if creds.UserID != "" {
		values[KeyUserID] = creds.UserID
	}
	if creds.UserEmail != "" {
		values[KeyUserEmail] = creds.UserEmail
	}
	s.write(values)
}

// LoadCredentials reads the whole session. Missing fields come back empty.
func (s *FileStore) LoadCredentials() model.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	return model.Credentials{
		AccessToken:  values[KeyAccessToken],
		RefreshToken: values[KeyRefreshToken],
		UserID:       values[KeyUserID],
		UserEmail:    values[KeyUserEmail],
	}
}

func (s *FileStore) read() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read credentials, treating as absent", "path", s.path, "error", err)
		}
		return map[string]string{}
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		slog.Warn("Corrupt credentials file, treating as absent", "path", s.path, "error", err)
		return map[string]string{}
	}
	return values
}

func (s *FileStore) write(values map[string]string) {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		slog.Warn("Failed to encode credentials", "error", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		slog.Warn("Failed to write credentials", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Warn("Failed to commit credentials", "path", s.path, "error", err)
	}
}
