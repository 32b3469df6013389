package exchange_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/snipvault/snipvault/internal/exchange"
	"github.com/snipvault/snipvault/internal/models"
)

func TestParseImportValid(t *testing.T) {
	data := []byte(`[{"keyword":"e","name":"Email","text":"a@b.com"}]`)
	records, err := exchange.ParseImport(data)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Keyword != "e" || r.Name != "Email" || r.Text != "a@b.com" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestParseImportPreservesOrder(t *testing.T) {
	data := []byte(`[
		{"keyword":"b","name":"B","text":"2"},
		{"keyword":"a","name":"A","text":"1"}
	]`)
	records, err := exchange.ParseImport(data)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(records) != 2 || records[0].Keyword != "b" || records[1].Keyword != "a" {
		t.Fatalf("order not preserved: %+v", records)
	}
}

func TestParseImportMissingFieldRejectsBatch(t *testing.T) {
	// Missing "name" in the second entry rejects the whole set.
	data := []byte(`[
		{"keyword":"ok","name":"Fine","text":"x"},
		{"keyword":"e","text":"a@b.com"}
	]`)
	records, err := exchange.ParseImport(data)
	if err == nil {
		t.Fatal("expected validation error for missing field")
	}
	if records != nil {
		t.Fatalf("no records may be produced on failure, got %+v", records)
	}
}

func TestParseImportRejectsNonArray(t *testing.T) {
	inputs := [][]byte{
		[]byte(`{"keyword":"e","name":"E","text":"t"}`),
		[]byte(`"just a string"`),
		[]byte(`42`),
		[]byte(`not json at all`),
	}
	for _, data := range inputs {
		if _, err := exchange.ParseImport(data); err == nil {
			t.Errorf("ParseImport(%s) should be rejected", data)
		}
	}
}

func TestParseImportRejectsNonStringField(t *testing.T) {
	data := []byte(`[{"keyword":"e","name":7,"text":"t"}]`)
	if _, err := exchange.ParseImport(data); err == nil {
		t.Fatal("expected error for non-string field")
	}
}

func TestParseImportRejectsEmptyField(t *testing.T) {
	data := []byte(`[{"keyword":"","name":"E","text":"t"}]`)
	if _, err := exchange.ParseImport(data); err == nil {
		t.Fatal("expected error for empty required field")
	}
}

func TestParseImportEmptyArray(t *testing.T) {
	records, err := exchange.ParseImport([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %+v", records)
	}
}

func TestExportProjectsThreeFields(t *testing.T) {
	snippets := []models.Snippet{
		{
			ID:        "id-1",
			Keyword:   "e",
			Name:      "Email",
			Text:      "a@b.com",
			Active:    true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}

	data, err := exchange.Export(snippets)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(decoded))
	}
	entry := decoded[0]
	if len(entry) != 3 {
		t.Errorf("export entry must carry exactly keyword, name, text; got %v", entry)
	}
	if entry["keyword"] != "e" || entry["name"] != "Email" || entry["text"] != "a@b.com" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	snippets := []models.Snippet{
		{ID: "1", Keyword: "a", Name: "A", Text: "alpha"},
		{ID: "2", Keyword: "b", Name: "B", Text: "beta"},
	}

	data, err := exchange.Export(snippets)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	records, err := exchange.ParseImport(data)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i, sn := range snippets {
		if records[i].Keyword != sn.Keyword || records[i].Name != sn.Name || records[i].Text != sn.Text {
			t.Errorf("entry %d did not round-trip: %+v", i, records[i])
		}
	}
}

func TestExportEmpty(t *testing.T) {
	data, err := exchange.Export(nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var decoded []any
	if err := json.Unmarshal(data, &decoded); err != nil || len(decoded) != 0 {
		t.Fatalf("expected empty JSON array, got %s", data)
	}
}
