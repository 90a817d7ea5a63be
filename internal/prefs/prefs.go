package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Preference keys used by the UI layer.
const (
	KeyConfirmDelete = "confirmDelete" // "true"/"false", default true
	KeyDualPane      = "dualPane"      // "true"/"false", default false
	KeySortMode      = "sortMode"      // "manual"/"title", default manual
)

// Store is a JSON-file-backed key/value preference store with a
// change-notification channel. Values are plain strings; callers own the
// encoding of anything richer.
type Store struct {
	mu       sync.Mutex
	path     string
	values   map[string]string
	watchers []chan string
}

// Open loads the preference file at path, starting empty if it does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: map[string]string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, err
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// GetBool returns the value for key as a bool, or def when absent or
// malformed.
func (s *Store) GetBool(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

// Set stores and persists a value, then notifies watchers with the key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	data, err := json.MarshalIndent(s.values, "", "  ")
	watchers := append([]chan string(nil), s.watchers...)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return err
	}

	for _, w := range watchers {
		// Slow consumers miss updates rather than block a Set.
		select {
		case w <- key:
		default:
		}
	}
	return nil
}

// SetBool stores a boolean value.
func (s *Store) SetBool(key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return s.Set(key, v)
}

// Watch returns a channel that receives the key of every changed
// preference. The channel is buffered; a consumer that falls behind
// misses updates.
func (s *Store) Watch() <-chan string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan string, 16)
	s.watchers = append(s.watchers, ch)
	return ch
}

// DefaultPath returns the default preference path: ~/.config/bmexp/prefs.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmexp", "prefs.json"), nil
}
