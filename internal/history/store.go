// =============================================================================
// QRIS Dynamic Converter - History Store
// =============================================================================
//
// Keeps the most recently scanned static payloads so a merchant code does not
// have to be scanned again for every sale.
//
// RULES:
//   - Entries are keyed by payload: saving a payload that is already present
//     removes the old entry first.
//   - The newest entry is first.
//   - At most MaxEntries entries are kept; older ones are dropped.
//   - Every change is written to disk immediately (temp file + rename).
//
// The store only ever receives (payload, merchant name) pairs; converted
// dynamic payloads are never stored.
//
// =============================================================================

package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultMaxEntries is used when Open is given a non-positive limit.
const DefaultMaxEntries = 10

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// Entry is one remembered static payload.
type Entry struct {
	ID           string    `yaml:"id"`
	Payload      string    `yaml:"payload"`
	MerchantName string    `yaml:"merchant_name"`
	CreatedAt    time.Time `yaml:"created_at"`
}

// file is the on-disk layout.
type file struct {
	Entries []Entry `yaml:"entries"`
}

// Store is a bounded, file-backed list of entries. It is safe for
// concurrent use.
type Store struct {
	path       string
	maxEntries int

	mu      sync.Mutex
	entries []Entry

	// now is replaced in tests.
	now func() time.Time
}

// Open loads the history kept at path. A missing file is an empty history.
//
// PARAMETERS:
//   - path: The YAML file backing the store.
//   - maxEntries: The number of entries kept; DefaultMaxEntries when <= 0.
func Open(path string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	s := &Store{path: path, maxEntries: maxEntries, now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}

	s.entries = f.Entries
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}
	return s, nil
}

// Save records payload as the newest entry and persists the history.
func (s *Store) Save(payload, merchantName string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ID:           uuid.NewString(),
		Payload:      payload,
		MerchantName: merchantName,
		CreatedAt:    s.now().UTC(),
	}

	next := make([]Entry, 0, s.maxEntries)
	next = append(next, entry)
	for _, e := range s.entries {
		if e.Payload == payload {
			continue
		}
		if len(next) == s.maxEntries {
			break
		}
		next = append(next, e)
	}

	if err := s.write(next); err != nil {
		return Entry{}, err
	}
	s.entries = next
	return entry, nil
}

// Remove deletes the entry with the given ID.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(s.entries) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.write(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns a copy of the entries, newest first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Entry(nil), s.entries...)
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(nil); err != nil {
		return err
	}
	s.entries = nil
	return nil
}

// write persists entries atomically. The caller holds s.mu.
func (s *Store) write(entries []Entry) error {
	data, err := yaml.Marshal(file{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
