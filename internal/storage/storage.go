// Package storage persists snippet records as a single JSON file under the
// library directory, with atomic writes and copy-on-read snapshots.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snipvault/snipvault/internal/models"
)

var (
	ErrNotFound         = errors.New("snippet not found")
	ErrDuplicateKeyword = errors.New("keyword already in use")
)

const snippetsFile = "snippets.json"

// Storage handles all file system operations for snippet records.
type Storage struct {
	mu       sync.RWMutex
	rootPath string
	snippets []models.Snippet
}

// NewStorage loads the snippet store rooted at rootPath, or creates an empty
// store if no file exists yet. An empty rootPath defaults to ~/.snipvault.
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".snipvault")
	}

	s := &Storage{rootPath: rootPath}

	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Start with an empty store.
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &s.snippets); err != nil {
		return nil, fmt.Errorf("failed to parse snippet store: %w", err)
	}
	return s, nil
}

func (s *Storage) filePath() string {
	return filepath.Join(s.rootPath, snippetsFile)
}

// InitLibrary creates the directory structure for a snippet library
func (s *Storage) InitLibrary() error {
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.rootPath, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

// List returns a snapshot of all snippets.
func (s *Storage) List() []models.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Snippet, len(s.snippets))
	copy(out, s.snippets)
	return out
}

// Get returns the snippet with the given id.
func (s *Storage) Get(id string) (models.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sn := range s.snippets {
		if sn.ID == id {
			return sn, nil
		}
	}
	return models.Snippet{}, ErrNotFound
}

// GetByKeyword returns the snippet registered under keyword.
func (s *Storage) GetByKeyword(keyword string) (models.Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sn := range s.snippets {
		if sn.Keyword == keyword {
			return sn, nil
		}
	}
	return models.Snippet{}, ErrNotFound
}

// Search returns snippets whose keyword or name contains the query as a
// case-insensitive substring. An empty query returns everything.
func (s *Storage) Search(query string) []models.Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(query)
	var out []models.Snippet
	for _, sn := range s.snippets {
		if query == "" ||
			strings.Contains(strings.ToLower(sn.Keyword), query) ||
			strings.Contains(strings.ToLower(sn.Name), query) {
			out = append(out, sn)
		}
	}
	return out
}

// Create validates and persists a new snippet, assigning its ID and
// timestamps. The keyword must not collide with an existing record.
func (s *Storage) Create(sn models.Snippet) (models.Snippet, error) {
	if err := validate(sn); err != nil {
		return models.Snippet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.snippets {
		if existing.Keyword == sn.Keyword {
			return models.Snippet{}, ErrDuplicateKeyword
		}
	}

	now := time.Now().UTC()
	sn.ID = uuid.NewString()
	sn.CreatedAt = now
	sn.UpdatedAt = now

	s.snippets = append(s.snippets, sn)
	if err := s.writeLocked(); err != nil {
		s.snippets = s.snippets[:len(s.snippets)-1]
		return models.Snippet{}, err
	}
	return sn, nil
}

// Update replaces the stored record matching sn.ID, preserving its creation
// time and refreshing UpdatedAt.
func (s *Storage) Update(sn models.Snippet) (models.Snippet, error) {
	if err := validate(sn); err != nil {
		return models.Snippet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.snippets {
		if existing.ID == sn.ID {
			idx = i
		} else if existing.Keyword == sn.Keyword {
			return models.Snippet{}, ErrDuplicateKeyword
		}
	}
	if idx < 0 {
		return models.Snippet{}, ErrNotFound
	}

	sn.CreatedAt = s.snippets[idx].CreatedAt
	sn.UpdatedAt = time.Now().UTC()

	prev := s.snippets[idx]
	s.snippets[idx] = sn
	if err := s.writeLocked(); err != nil {
		s.snippets[idx] = prev
		return models.Snippet{}, err
	}
	return sn, nil
}

// Delete removes the snippet with the given id.
func (s *Storage) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sn := range s.snippets {
		if sn.ID == id {
			prev := s.snippets
			s.snippets = append(append([]models.Snippet{}, s.snippets[:i]...), s.snippets[i+1:]...)
			if err := s.writeLocked(); err != nil {
				s.snippets = prev
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// CreateBatch validates, stamps and persists a batch of new snippets with a
// single file write, so a failed import leaves the store untouched. Keywords
// must not collide within the batch or with existing records.
func (s *Storage) CreateBatch(batch []models.Snippet) ([]models.Snippet, error) {
	for _, sn := range batch {
		if err := validate(sn); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]bool, len(s.snippets))
	for _, existing := range s.snippets {
		taken[existing.Keyword] = true
	}

	now := time.Now().UTC()
	stamped := make([]models.Snippet, 0, len(batch))
	for _, sn := range batch {
		if taken[sn.Keyword] {
			return nil, ErrDuplicateKeyword
		}
		taken[sn.Keyword] = true
		sn.ID = uuid.NewString()
		sn.CreatedAt = now
		sn.UpdatedAt = now
		stamped = append(stamped, sn)
	}

	all := make([]models.Snippet, 0, len(s.snippets)+len(stamped))
	all = append(all, s.snippets...)
	all = append(all, stamped...)
	if err := s.replaceLocked(all); err != nil {
		return nil, err
	}
	return stamped, nil
}

// replaceLocked swaps the record set, rolling back when the write fails.
// Caller must hold s.mu.
func (s *Storage) replaceLocked(snippets []models.Snippet) error {
	prev := s.snippets
	s.snippets = snippets
	if err := s.writeLocked(); err != nil {
		s.snippets = prev
		return err
	}
	return nil
}

func validate(sn models.Snippet) error {
	if sn.Keyword == "" {
		return fmt.Errorf("snippet keyword must not be empty")
	}
	if sn.Name == "" {
		return fmt.Errorf("snippet name must not be empty")
	}
	if sn.Text == "" {
		return fmt.Errorf("snippet text must not be empty")
	}
	return nil
}

// writeLocked writes to a temp file then renames it over the store file.
// Caller must hold s.mu.
func (s *Storage) writeLocked() error {
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return err
	}

	records := s.snippets
	if records == nil {
		records = []models.Snippet{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.filePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath())
}
