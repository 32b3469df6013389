package template

import (
	"strings"
	"unicode/utf8"
)

// ClipboardReader supplies the clipboard snapshot for the clipboard pass.
// A failed read is treated as empty clipboard content, never as a fatal
// error.
type ClipboardReader func() (string, error)

// ExecutionResult is the outcome of expanding a template. CursorIndex is the
// rune offset into Result where the cursor should land, or nil when the
// template contains no {cursor} token.
type ExecutionResult struct {
	Result      string `json:"result"`
	CursorIndex *int   `json:"cursorIndex,omitempty"`
}

// Execute expands text in three ordered passes: argument placeholders are
// replaced with their resolved values, remaining {clipboard} tokens with a
// single clipboard snapshot, and {cursor} tokens are stripped with the first
// one reporting its offset into the final string.
//
// Replacement text is opaque: a resolved value or clipboard snapshot that
// happens to contain placeholder-like syntax is never re-interpreted by a
// later pass. The template is tokenized once up front, so only tokens present
// in the original text are substituted.
func Execute(text string, supplied map[string]string, readClipboard ClipboardReader) ExecutionResult {
	segs := tokenize(text)
	values := Resolve(ExtractArguments(text), supplied)

	// One snapshot per execution, fetched before the clipboard pass and
	// shared by every occurrence.
	var clip string
	if hasClipboard(segs) && readClipboard != nil {
		if c, err := readClipboard(); err == nil {
			clip = c
		}
	}

	var b strings.Builder
	var cursor *int
	for _, seg := range segs {
		switch seg.kind {
		case segLiteral:
			b.WriteString(seg.text)
		case segArgument:
			b.WriteString(values[seg.name])
		case segClipboard:
			b.WriteString(clip)
		case segCursor:
			// First occurrence wins; later tokens are removed silently.
			if cursor == nil {
				offset := utf8.RuneCountInString(b.String())
				cursor = &offset
			}
		}
	}

	return ExecutionResult{Result: b.String(), CursorIndex: cursor}
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segArgument
	segClipboard
	segCursor
)

type segment struct {
	kind segmentKind
	text string // literal text, set for segLiteral
	name string // argument name, set for segArgument
}

// tokenize splits text into literal runs and the three placeholder kinds.
// Malformed argument placeholders (no name attribute) stay inside literal
// runs, where {clipboard} and {cursor} tokens embedded in them are still
// honored, matching the pass-by-pass replacement the segments stand in for.
func tokenize(text string) []segment {
	var segs []segment
	pos := 0
	for _, m := range argumentPattern.FindAllStringSubmatchIndex(text, -1) {
		spec, ok := parseAttributes(text[m[2]:m[3]])
		if !ok {
			continue
		}
		segs = appendLiteral(segs, text[pos:m[0]])
		segs = append(segs, segment{kind: segArgument, name: spec.Name})
		pos = m[1]
	}
	return appendLiteral(segs, text[pos:])
}

// appendLiteral splits a literal run on {clipboard} and {cursor} tokens and
// appends the resulting segments.
func appendLiteral(segs []segment, text string) []segment {
	for text != "" {
		ci := strings.Index(text, clipboardToken)
		cu := strings.Index(text, cursorToken)

		var at int
		var kind segmentKind
		var token string
		switch {
		case ci < 0 && cu < 0:
			return append(segs, segment{kind: segLiteral, text: text})
		case cu < 0 || (ci >= 0 && ci < cu):
			at, kind, token = ci, segClipboard, clipboardToken
		default:
			at, kind, token = cu, segCursor, cursorToken
		}

		if at > 0 {
			segs = append(segs, segment{kind: segLiteral, text: text[:at]})
		}
		segs = append(segs, segment{kind: kind})
		text = text[at+len(token):]
	}
	return segs
}

func hasClipboard(segs []segment) bool {
	for _, seg := range segs {
		if seg.kind == segClipboard {
			return true
		}
	}
	return false
}
