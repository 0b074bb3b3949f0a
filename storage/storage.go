// Package storage is the durable client-side key-value store: a JSON file
// persisted across CLI invocations, playing the role browser storage plays in
// the web control panel. Keys are a fixed, typed registry so the sign-out
// clearing logic has a single source of truth.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Key names one durable entry. Only the registered constants below are valid;
// ad hoc string keys are a bug.
type Key string

const (
	// KeyCurrentOrg holds the id of the last-selected organization.
	KeyCurrentOrg Key = "current_org"

	// KeyAppCache holds the generic app cache blob.
	KeyAppCache Key = "app_cache"

	// KeyRequestHistory holds the playground request history list.
	KeyRequestHistory Key = "request_history"
)

// SessionKeys are the entries scoped to an authenticated session. Sign-out
// clears exactly these.
var SessionKeys = []Key{KeyCurrentOrg, KeyAppCache}

// Store is a file-backed KV store. All operations are read-modify-write on
// the whole file, guarded by a mutex; values are raw JSON.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store persisting to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get unmarshals the value under key into v. Returns false if the key is not
// present.
func (s *Store) Get(key Key, v interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return false, err
	}
	raw, ok := entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Wrapf(err, "failed to decode stored value %q", key)
	}
	return true, nil
}

// Set marshals v and persists it under key.
func (s *Store) Set(key Key, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode value %q", key)
	}
	entries[key] = raw
	return s.write(entries)
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Store) Delete(keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(entries, key)
	}
	return s.write(entries)
}

func (s *Store) read() (map[Key]json.RawMessage, error) {
	bytes, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[Key]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read state file")
	}

	entries := map[Key]json.RawMessage{}
	if len(bytes) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(bytes, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to parse state file")
	}
	return entries, nil
}

func (s *Store) write(entries map[Key]json.RawMessage) error {
	bytes, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	dirPath, _ := filepath.Split(s.path)
	if dirPath != "" {
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return errors.WithStack(err)
		}
	}
	return os.WriteFile(s.path, bytes, 0o600)
}
