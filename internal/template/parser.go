// Package template implements the placeholder templating engine: discovery
// of {argument ...} placeholders, resolution of argument values, and the
// ordered substitution pipeline that expands a snippet into final text.
package template

import (
	"regexp"
	"strings"
)

// Placeholder tokens recognized alongside {argument ...}.
const (
	clipboardToken = "{clipboard}"
	cursorToken    = "{cursor}"
)

var (
	// argumentPattern matches a whole {argument ...} placeholder whose body
	// is a run of key="value" attributes. Attribute values may contain any
	// character except a double quote, including braces.
	argumentPattern = regexp.MustCompile(`\{argument\s+((?:\w+="[^"]*"\s*)+)\}`)

	// attributePattern picks individual key="value" pairs out of the body.
	attributePattern = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

// ArgumentSpec describes a single {argument ...} occurrence in a template.
// Options is nil when the options attribute is absent; an options attribute
// with an empty value yields a single empty entry.
type ArgumentSpec struct {
	Name       string   `json:"name"`
	Options    []string `json:"options,omitempty"`
	Default    string   `json:"default,omitempty"`
	HasDefault bool     `json:"hasDefault"`
}

// ExtractArguments scans text and returns one ArgumentSpec per well-formed
// argument placeholder, in order of appearance. Occurrences missing the
// required name attribute are not recognized and remain literal text.
// Duplicate names are not deduplicated; each occurrence yields its own spec.
// Pure function: no I/O, deterministic for identical input.
func ExtractArguments(text string) []ArgumentSpec {
	var specs []ArgumentSpec
	for _, m := range argumentPattern.FindAllStringSubmatch(text, -1) {
		if spec, ok := parseAttributes(m[1]); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// parseAttributes builds a spec from a placeholder body. The attributes may
// appear in any order; options and default are independently optional. If the
// same attribute repeats, the first occurrence wins. Reports ok=false when no
// name attribute is present.
func parseAttributes(body string) (ArgumentSpec, bool) {
	var spec ArgumentSpec
	named := false
	for _, kv := range attributePattern.FindAllStringSubmatch(body, -1) {
		switch kv[1] {
		case "name":
			if !named {
				spec.Name = kv[2]
				named = true
			}
		case "options":
			if spec.Options == nil {
				spec.Options = splitOptions(kv[2])
			}
		case "default":
			if !spec.HasDefault {
				spec.Default = kv[2]
				spec.HasDefault = true
			}
		}
	}
	return spec, named
}

// splitOptions splits a raw options value on commas, trimming surrounding
// whitespace from each piece. Empty pieces are retained as empty strings and
// order is preserved.
func splitOptions(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
