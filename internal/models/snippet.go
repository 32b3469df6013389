package models

import (
	"strings"
	"time"
)

// Snippet is a stored text template keyed by a trigger keyword.
type Snippet struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Implement list.Item interface for the bubbles list component

// FilterValue returns the value used for filtering in lists
func (s Snippet) FilterValue() string {
	return cleanString(s.Keyword + " " + s.Name)
}

// Title satisfies the list.Item interface
func (s Snippet) Title() string {
	if s.Name != "" {
		return cleanString(s.Name)
	}
	return cleanString(s.Keyword)
}

// Description satisfies the list.Item interface
func (s Snippet) Description() string {
	parts := []string{s.Keyword}

	preview := cleanString(s.Text)
	// Truncate on a rune boundary so multi-byte text stays valid.
	if runes := []rune(preview); len(runes) > 60 {
		preview = string(runes[:57]) + "..."
	}
	if preview != "" {
		parts = append(parts, preview)
	}
	if !s.Active {
		parts = append(parts, "inactive")
	}

	return cleanString(strings.Join(parts, " · "))
}

// cleanString removes control characters that would break list rendering
func cleanString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteByte(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	return strings.TrimSpace(cleaned)
}
