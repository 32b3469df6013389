// Package service provides the business logic for snippet management: CRUD
// over the record store, fuzzy search, template execution and the
// import/export boundary. All surfaces (CLI, HTTP API, TUI) go through a
// Service instance; nothing in here keeps process-wide state.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/snipvault/snipvault/internal/clipboard"
	apperrors "github.com/snipvault/snipvault/internal/errors"
	"github.com/snipvault/snipvault/internal/exchange"
	"github.com/snipvault/snipvault/internal/models"
	"github.com/snipvault/snipvault/internal/storage"
	"github.com/snipvault/snipvault/internal/template"
)

// Service provides business logic for snippet management
type Service struct {
	storage *storage.Storage

	// Clipboard bridge functions, swappable in tests.
	readClipboard  func() (string, error)
	writeClipboard func(string) error
}

// NewService creates a new service instance over the library at rootPath.
func NewService(rootPath string) (*Service, error) {
	store, err := storage.NewStorage(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &Service{
		storage:        store,
		readClipboard:  clipboard.Read,
		writeClipboard: clipboard.Copy,
	}, nil
}

// SetClipboardBridge replaces the clipboard collaborator. Used by tests and
// by hosts that own the clipboard themselves.
func (s *Service) SetClipboardBridge(read func() (string, error), write func(string) error) {
	s.readClipboard = read
	s.writeClipboard = write
}

// ReadClipboard reads through the clipboard bridge. Collaborators that run
// their own expansion, such as the auto-expansion engine, share the bridge
// this way.
func (s *Service) ReadClipboard() (string, error) {
	return s.readClipboard()
}

// InitLibrary initializes a new snippet library
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// ListSnippets returns all snippets
func (s *Service) ListSnippets() []models.Snippet {
	return s.storage.List()
}

// ActiveSnippets returns the keyword-to-text view of active snippets used by
// the auto-expansion engine.
func (s *Service) ActiveSnippets() map[string]string {
	active := make(map[string]string)
	for _, sn := range s.storage.List() {
		if sn.Active {
			active[sn.Keyword] = sn.Text
		}
	}
	return active
}

// SearchSnippets performs a fuzzy search over keyword, name and text.
func (s *Service) SearchSnippets(query string) []models.Snippet {
	snippets := s.storage.List()
	if query == "" {
		return snippets
	}

	searchStrings := make([]string, len(snippets))
	for i, sn := range snippets {
		searchStrings[i] = fmt.Sprintf("%s %s %s", sn.Keyword, sn.Name, sn.Text)
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]models.Snippet, 0, len(matches))
	for _, match := range matches {
		results = append(results, snippets[match.Index])
	}
	return results
}

// GetSnippet returns a snippet by ID
func (s *Service) GetSnippet(id string) (models.Snippet, error) {
	sn, err := s.storage.Get(id)
	if err != nil {
		return models.Snippet{}, mapStorageError(err, "snippet")
	}
	return sn, nil
}

// GetSnippetByKeyword returns the snippet registered under keyword
func (s *Service) GetSnippetByKeyword(keyword string) (models.Snippet, error) {
	sn, err := s.storage.GetByKeyword(keyword)
	if err != nil {
		return models.Snippet{}, mapStorageError(err, fmt.Sprintf("snippet %q", keyword))
	}
	return sn, nil
}

// CreateSnippet validates and stores a new snippet
func (s *Service) CreateSnippet(sn models.Snippet) (models.Snippet, error) {
	created, err := s.storage.Create(sn)
	if err != nil {
		return models.Snippet{}, mapStorageError(err, "snippet")
	}
	return created, nil
}

// UpdateSnippet updates an existing snippet
func (s *Service) UpdateSnippet(sn models.Snippet) (models.Snippet, error) {
	updated, err := s.storage.Update(sn)
	if err != nil {
		return models.Snippet{}, mapStorageError(err, "snippet")
	}
	return updated, nil
}

// DeleteSnippet deletes a snippet by ID
func (s *Service) DeleteSnippet(id string) error {
	if err := s.storage.Delete(id); err != nil {
		return mapStorageError(err, "snippet")
	}
	return nil
}

// ParseArguments returns one spec per distinct argument name in text, in
// order of first appearance. The UI builds its argument form from this.
func (s *Service) ParseArguments(text string) []template.ArgumentSpec {
	return template.DistinctSpecs(template.ExtractArguments(text))
}

// ExecuteText expands a raw template with the supplied argument values,
// reading the clipboard through the bridge when the template asks for it.
func (s *Service) ExecuteText(text string, values map[string]string) template.ExecutionResult {
	return template.Execute(text, values, s.readClipboard)
}

// ExecuteSnippet expands the stored snippet with the supplied values.
func (s *Service) ExecuteSnippet(id string, values map[string]string) (template.ExecutionResult, error) {
	sn, err := s.GetSnippet(id)
	if err != nil {
		return template.ExecutionResult{}, err
	}
	return s.ExecuteText(sn.Text, values), nil
}

// ExecuteAndCopy expands the snippet and delivers the result to the system
// clipboard. A write failure is surfaced but the expanded result is still
// returned so the caller can offer it for manual copy.
func (s *Service) ExecuteAndCopy(id string, values map[string]string) (template.ExecutionResult, error) {
	res, err := s.ExecuteSnippet(id, values)
	if err != nil {
		return template.ExecutionResult{}, err
	}
	if err := s.writeClipboard(res.Result); err != nil {
		return res, apperrors.ClipboardError("write", err)
	}
	return res, nil
}

// Import validates and stores an exchange batch. The operation is
// all-or-nothing: on any malformed entry, keyword conflict or storage
// failure, no record is created. Returns the number of imported snippets.
func (s *Service) Import(data []byte) (int, error) {
	records, err := exchange.ParseImport(data)
	if err != nil {
		return 0, err
	}

	// Reject keyword collisions, within the batch and against the store,
	// before anything is written.
	existing := s.storage.List()
	taken := make(map[string]bool, len(existing))
	for _, sn := range existing {
		taken[sn.Keyword] = true
	}
	for i, rec := range records {
		if taken[rec.Keyword] {
			return 0, apperrors.ValidationError(
				fmt.Sprintf("import entry %d: keyword %q already in use", i+1, rec.Keyword))
		}
		taken[rec.Keyword] = true
	}

	batch := make([]models.Snippet, 0, len(records))
	for _, rec := range records {
		batch = append(batch, models.Snippet{
			Keyword: rec.Keyword,
			Name:    rec.Name,
			Text:    rec.Text,
			Active:  true,
		})
	}
	// One write for the whole batch: a storage failure imports nothing.
	if _, err := s.storage.CreateBatch(batch); err != nil {
		return 0, mapStorageError(err, "import batch")
	}
	return len(records), nil
}

// Export projects all snippets to the exchange schema.
func (s *Service) Export() ([]byte, error) {
	return exchange.Export(s.storage.List())
}

func mapStorageError(err error, resource string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFoundError(resource)
	case errors.Is(err, storage.ErrDuplicateKeyword):
		return apperrors.AlreadyExistsError("keyword")
	case strings.Contains(err.Error(), "must not be empty"):
		return apperrors.ValidationError(err.Error())
	default:
		return apperrors.StorageError(resource, err)
	}
}
