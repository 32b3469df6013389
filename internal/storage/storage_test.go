package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/snipvault/snipvault/internal/models"
	"github.com/snipvault/snipvault/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s
}

func TestNewStorageMissingFile(t *testing.T) {
	s := newTestStorage(t)
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty store, got %d snippets", len(got))
	}
}

func TestCreateAndReload(t *testing.T) {
	dir := t.TempDir()
	s, _ := storage.NewStorage(dir)

	created, err := s.Create(models.Snippet{Keyword: "sig", Name: "Signature", Text: "Cheers,\nBob", Active: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create should assign an ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("Create should set timestamps")
	}

	// Reload from disk.
	s2, err := storage.NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage reload: %v", err)
	}
	got := s2.List()
	if len(got) != 1 || got[0].Keyword != "sig" || got[0].Text != "Cheers,\nBob" {
		t.Fatalf("unexpected reloaded snippets: %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestStorage(t)

	invalid := []models.Snippet{
		{Keyword: "", Name: "n", Text: "t"},
		{Keyword: "k", Name: "", Text: "t"},
		{Keyword: "k", Name: "n", Text: ""},
	}
	for _, sn := range invalid {
		if _, err := s.Create(sn); err == nil {
			t.Errorf("Create(%+v) should fail validation", sn)
		}
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("no snippet should have been stored, got %d", len(got))
	}
}

func TestCreateDuplicateKeyword(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.Create(models.Snippet{Keyword: "k", Name: "First", Text: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create(models.Snippet{Keyword: "k", Name: "Second", Text: "b"})
	if !errors.Is(err, storage.ErrDuplicateKeyword) {
		t.Fatalf("expected ErrDuplicateKeyword, got %v", err)
	}
}

func TestGetAndGetByKeyword(t *testing.T) {
	s := newTestStorage(t)
	created, _ := s.Create(models.Snippet{Keyword: "addr", Name: "Address", Text: "1 Main St"})

	byID, err := s.Get(created.ID)
	if err != nil || byID.Keyword != "addr" {
		t.Fatalf("Get: %v %+v", err, byID)
	}

	byKw, err := s.GetByKeyword("addr")
	if err != nil || byKw.ID != created.ID {
		t.Fatalf("GetByKeyword: %v %+v", err, byKw)
	}

	if _, err := s.Get("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStorage(t)
	created, _ := s.Create(models.Snippet{Keyword: "k", Name: "Name", Text: "old"})

	created.Text = "new"
	updated, err := s.Update(created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Text != "new" {
		t.Errorf("text = %q, want %q", updated.Text, "new")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Update must preserve CreatedAt")
	}

	missing := models.Snippet{ID: "ghost", Keyword: "g", Name: "g", Text: "g"}
	if _, err := s.Update(missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateKeywordCollision(t *testing.T) {
	s := newTestStorage(t)
	s.Create(models.Snippet{Keyword: "a", Name: "A", Text: "x"})
	b, _ := s.Create(models.Snippet{Keyword: "b", Name: "B", Text: "y"})

	b.Keyword = "a"
	if _, err := s.Update(b); !errors.Is(err, storage.ErrDuplicateKeyword) {
		t.Fatalf("expected ErrDuplicateKeyword, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)
	created, _ := s.Create(models.Snippet{Keyword: "k", Name: "N", Text: "t"})

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStorage(t)
	s.Create(models.Snippet{Keyword: "mail", Name: "Work Email", Text: "a@b.com"})
	s.Create(models.Snippet{Keyword: "addr", Name: "Home Address", Text: "1 Main St"})

	if got := s.Search("mail"); len(got) != 1 || got[0].Keyword != "mail" {
		t.Fatalf("Search(mail) = %+v", got)
	}
	// Case-insensitive name substring.
	if got := s.Search("home"); len(got) != 1 || got[0].Keyword != "addr" {
		t.Fatalf("Search(home) = %+v", got)
	}
	if got := s.Search(""); len(got) != 2 {
		t.Fatalf("Search(\"\") should return all, got %d", len(got))
	}
	if got := s.Search("zzz"); len(got) != 0 {
		t.Fatalf("Search(zzz) = %+v", got)
	}
}

func TestCreateBatch(t *testing.T) {
	dir := t.TempDir()
	s, _ := storage.NewStorage(dir)
	s.Create(models.Snippet{Keyword: "old", Name: "Old", Text: "x"})

	batch := []models.Snippet{
		{Keyword: "a", Name: "A", Text: "1"},
		{Keyword: "b", Name: "B", Text: "2"},
	}
	created, err := s.CreateBatch(batch)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(created) != 2 || created[0].ID == "" || created[1].ID == "" {
		t.Fatalf("batch records should carry IDs: %+v", created)
	}

	s2, _ := storage.NewStorage(dir)
	got := s2.List()
	if len(got) != 3 || got[1].Keyword != "a" || got[2].Keyword != "b" {
		t.Fatalf("unexpected snippets after CreateBatch: %+v", got)
	}
}

func TestCreateBatchDuplicateKeyword(t *testing.T) {
	s := newTestStorage(t)
	s.Create(models.Snippet{Keyword: "mail", Name: "Email", Text: "a@b.com"})

	// Collision with an existing record.
	if _, err := s.CreateBatch([]models.Snippet{
		{Keyword: "mail", Name: "Dup", Text: "x"},
	}); err != storage.ErrDuplicateKeyword {
		t.Fatalf("expected ErrDuplicateKeyword, got %v", err)
	}

	// Collision within the batch itself.
	if _, err := s.CreateBatch([]models.Snippet{
		{Keyword: "a", Name: "A", Text: "1"},
		{Keyword: "a", Name: "B", Text: "2"},
	}); err != storage.ErrDuplicateKeyword {
		t.Fatalf("expected ErrDuplicateKeyword, got %v", err)
	}

	if got := s.List(); len(got) != 1 {
		t.Fatalf("rejected batches must create nothing, got %d records", len(got))
	}
}

func TestCreateBatchRollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "lib")
	s, err := storage.NewStorage(root)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	if _, err := s.Create(models.Snippet{Keyword: "keep", Name: "Keep", Text: "x"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Block the library path with a regular file so the next write fails.
	os.RemoveAll(root)
	if err := os.WriteFile(root, []byte("blocked"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = s.CreateBatch([]models.Snippet{
		{Keyword: "a", Name: "A", Text: "1"},
		{Keyword: "b", Name: "B", Text: "2"},
	})
	if err == nil {
		t.Fatal("expected a write failure")
	}
	if got := s.List(); len(got) != 1 || got[0].Keyword != "keep" {
		t.Fatalf("failed batch must leave the store untouched, got %+v", got)
	}
}

func TestConcurrentCreate(t *testing.T) {
	s := newTestStorage(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Create(models.Snippet{
				Keyword: string(rune('a' + n)),
				Name:    "N",
				Text:    "t",
			})
		}(i)
	}
	wg.Wait()

	if got := s.List(); len(got) != 10 {
		t.Fatalf("expected 10 snippets, got %d", len(got))
	}
}
