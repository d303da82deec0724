// Package file provides a TOML-file implementation of the LocalStore port.
//
// Each key/value pair lives in a single TOML document on disk. Reads go
// back to the file on every call, so external writes (another process,
// the watch daemon, a hand edit) are observed without any refresh hook.
// The file is written with 0600 permissions inside a 0700 directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/pelletier/go-toml/v2"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.LocalStore = (*Store)(nil)

// Store is a file-based implementation of driven.LocalStore using TOML.
type Store struct {
	mu       sync.Mutex
	filePath string
}

// NewStore creates a TOML-backed local store at the given file path.
// If path is empty, defaults to ~/.prefsync/preferences.toml.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".prefsync", "preferences.toml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	return &Store{filePath: path}, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.filePath
}

// Get retrieves the value stored under key. The file is re-read on every
// call so concurrent external writes are visible.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

// Set stores value under key and persists immediately. A full disk
// reports domain.ErrQuotaExceeded.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

// Remove deletes the value stored under key. Removing an absent key is
// not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.save(data)
}

// load reads the TOML file (caller must hold lock).
func (s *Store) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No store file yet - start empty
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	var data map[string]string
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

// save writes the TOML file with restricted permissions (caller must
// hold lock).
func (s *Store) save(data map[string]string) error {
	raw, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}

	if err := os.WriteFile(s.filePath, raw, 0600); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("writing store file: %w", domain.ErrQuotaExceeded)
		}
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}
