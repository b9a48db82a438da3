// Package schedule manages named recurring explorations: a file-backed store
// of definitions and a cron runner that fires them.
package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/manavm12/parallel-u/internal/types"
)

// Exploration is a named, recurring browsing cycle definition.
type Exploration struct {
	Name          string      `json:"name"`
	UserID        string      `json:"user_id"`
	Topics        []string    `json:"topics"`
	Depth         types.Depth `json:"depth,omitempty"`
	TimeBudgetMin int         `json:"time_budget_min,omitempty"`
	Schedule      string      `json:"schedule,omitempty"`
	DeliverTo     string      `json:"deliver_to,omitempty"`
	Enabled       bool        `json:"enabled"`
}

// Store is a JSON-file-backed store for exploration definitions.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a file-backed Store at the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path used by this store.
func (s *Store) Path() string {
	return s.path
}

// List returns all explorations. Returns an empty slice if the file doesn't exist.
func (s *Store) List() ([]*Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	explorations, err := s.load()
	if err != nil {
		return nil, err
	}
	if explorations == nil {
		return []*Exploration{}, nil
	}
	return explorations, nil
}

// Get finds an exploration by name. Returns an error if not found.
func (s *Store) Get(name string) (*Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	explorations, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, exp := range explorations {
		if exp.Name == name {
			return exp, nil
		}
	}
	return nil, fmt.Errorf("exploration not found: %s", name)
}

// Add appends an exploration. Returns an error if the name is already taken.
func (s *Store) Add(exp *Exploration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	explorations, err := s.load()
	if err != nil {
		return err
	}

	for _, existing := range explorations {
		if existing.Name == exp.Name {
			return fmt.Errorf("exploration already exists: %s", exp.Name)
		}
	}

	explorations = append(explorations, exp)
	return s.save(explorations)
}

// Remove deletes an exploration by name. Returns an error if not found.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	explorations, err := s.load()
	if err != nil {
		return err
	}

	for i, exp := range explorations {
		if exp.Name == name {
			explorations = append(explorations[:i], explorations[i+1:]...)
			return s.save(explorations)
		}
	}
	return fmt.Errorf("exploration not found: %s", name)
}

// SetEnabled toggles the enabled flag. Returns an error if not found.
func (s *Store) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	explorations, err := s.load()
	if err != nil {
		return err
	}

	for _, exp := range explorations {
		if exp.Name == name {
			exp.Enabled = enabled
			return s.save(explorations)
		}
	}
	return fmt.Errorf("exploration not found: %s", name)
}

// load reads the JSON file. Returns nil if the file doesn't exist.
func (s *Store) load() ([]*Exploration, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read explorations file: %w", err)
	}

	var explorations []*Exploration
	if err := json.Unmarshal(data, &explorations); err != nil {
		return nil, fmt.Errorf("unmarshal explorations: %w", err)
	}
	return explorations, nil
}

// save writes the list to disk using atomic write (temp file + rename).
func (s *Store) save(explorations []*Exploration) error {
	data, err := json.MarshalIndent(explorations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal explorations: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create explorations dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp explorations file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp explorations file: %w", err)
	}
	return nil
}
