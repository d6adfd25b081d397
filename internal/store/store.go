// Package store persists the service's flat-file state under a single
// data directory: the latest canonical policy document, the user
// registry, the image catalog, and the access log.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dreamkkun/retention/internal/policy"
)

const policiesFile = "policies.json"

// Store is a mutex-guarded JSON file store. Writes go through a temp
// file and rename so readers never observe a half-written file.
type Store struct {
	mu  sync.Mutex
	dir string
}

// Open creates the data directory if needed and returns a store rooted
// there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// WriteJSON marshals v and atomically replaces the named file.
func (s *Store) WriteJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// ReadJSON unmarshals the named file into v. It reports false with a nil
// error when the file does not exist yet.
func (s *Store) ReadJSON(name string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// AppendLine appends one line to the named file, creating it on first
// use. Used for the append-only access log.
func (s *Store) AppendLine(name, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}
	return nil
}

// SaveDocument replaces the persisted canonical policy document.
func (s *Store) SaveDocument(doc *policy.Document) error {
	return s.WriteJSON(policiesFile, doc)
}

// LatestDocument returns the persisted canonical policy document, or nil
// when no document has been extracted yet.
func (s *Store) LatestDocument() (*policy.Document, error) {
	var doc policy.Document
	ok, err := s.ReadJSON(policiesFile, &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &doc, nil
}
