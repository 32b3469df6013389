// Package exchange implements the import/export boundary: a JSON array of
// {keyword, name, text} objects that round-trips losslessly for those three
// fields. Import validation is all-or-nothing; a single malformed entry
// rejects the whole batch before any record is created.
package exchange

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/snipvault/snipvault/internal/errors"
	"github.com/snipvault/snipvault/internal/models"
)

// Record is the external representation of a snippet. Internal fields such
// as id, active and timestamps are not part of the exchanged schema.
type Record struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name"`
	Text    string `json:"text"`
}

// rawRecord uses pointer fields so a missing key is distinguishable from an
// empty string.
type rawRecord struct {
	Keyword *string `json:"keyword"`
	Name    *string `json:"name"`
	Text    *string `json:"text"`
}

// ParseImport validates data as an ordered array of exchange records. It
// returns every record or a single descriptive validation error; no partial
// result is ever produced.
func ParseImport(data []byte) ([]Record, error) {
	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput,
			"import data must be a JSON array of {keyword, name, text} objects")
	}

	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := raw.validate(i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r rawRecord) validate(index int) (Record, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"keyword", r.Keyword},
		{"name", r.Name},
		{"text", r.Text},
	}

	for _, f := range fields {
		if f.value == nil {
			return Record{}, apperrors.NewAppError(apperrors.ErrCodeMissingField,
				fmt.Sprintf("import entry %d is missing required field %q", index+1, f.name))
		}
		if *f.value == "" {
			return Record{}, apperrors.ValidationError(
				fmt.Sprintf("import entry %d has an empty %q field", index+1, f.name))
		}
	}

	return Record{Keyword: *r.Keyword, Name: *r.Name, Text: *r.Text}, nil
}

// Export projects snippets to the exchange schema, dropping id, active and
// timestamps, and marshals them as an ordered JSON array.
func Export(snippets []models.Snippet) ([]byte, error) {
	records := make([]Record, 0, len(snippets))
	for _, sn := range snippets {
		records = append(records, Record{Keyword: sn.Keyword, Name: sn.Name, Text: sn.Text})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to encode export data")
	}
	return data, nil
}
