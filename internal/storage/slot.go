// Package storage provides the browser-local-storage analogue backing the
// persistence bridge: a synchronous store of single string values addressed
// by key, with no partial writes.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Slot is a string-keyed single-value store. A write fully overwrites the
// previous value of the key.
type Slot interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// FileStore keeps one file per key under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the value of key; ok is false when the key has never been set.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set overwrites the value of key. The write goes through a temp file and
// rename so a crash never leaves a half-written slot.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("commit slot %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove slot %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	// Keys come from config and are plain identifiers; strip separators
	// anyway so a hostile key cannot escape the directory.
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, key)
	return filepath.Join(s.dir, clean)
}

// MemStore is an in-process Slot used by tests and by degraded
// (no-persistence) mode.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

// Get reads the value of key.
func (s *MemStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

// Set overwrites the value of key.
func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes the key.
func (s *MemStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
