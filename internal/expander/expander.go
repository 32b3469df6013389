// Package expander implements auto-expansion: it watches a stream of key
// events for a trigger keyword and, when a word boundary commits one,
// replaces the typed keyword with the expanded snippet text. The OS keyboard
// hook and synthetic keystrokes live behind the KeyEvent/Typer boundary, so
// the matching logic here is host-independent.
package expander

import (
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/snipvault/snipvault/internal/template"
)

// maxBuffer caps the tracked keystroke window; oldest runes are dropped.
const maxBuffer = 100

// KeyKind classifies an incoming key event.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyCommit
	KeyBackspace
)

// KeyEvent is one observed keystroke. Rune is set for KeyRune events.
// Space, Enter and Tab arrive as KeyCommit.
type KeyEvent struct {
	Kind KeyKind
	Rune rune
}

// SnippetSource provides the live keyword-to-template view of active
// snippets.
type SnippetSource interface {
	ActiveSnippets() map[string]string
}

// Typer performs keystroke-level edits in the host application: erasing the
// typed keyword and typing the expansion in its place.
type Typer interface {
	Backspace(n int) error
	Type(text string) error
}

// Expander tracks typed text and performs keyword expansion.
type Expander struct {
	mu      sync.Mutex
	buffer  []rune
	enabled bool

	source        SnippetSource
	typer         Typer
	readClipboard template.ClipboardReader
}

// New creates an expander. It starts disabled.
func New(source SnippetSource, typer Typer, readClipboard template.ClipboardReader) *Expander {
	return &Expander{
		source:        source,
		typer:         typer,
		readClipboard: readClipboard,
	}
}

// SetEnabled toggles auto-expansion at runtime.
func (e *Expander) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
	if enabled {
		log.Println("Auto-expansion enabled")
	} else {
		log.Println("Auto-expansion disabled")
	}
}

// IsEnabled reports whether auto-expansion is active.
func (e *Expander) IsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// HandleKey feeds one key event into the tracker. On a commit key the
// buffered word is checked against the active keywords; a match erases the
// keyword and types the expansion.
func (e *Expander) HandleKey(ev KeyEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return
	}

	switch ev.Kind {
	case KeyCommit:
		keyword := strings.TrimSpace(string(e.buffer))
		e.buffer = e.buffer[:0]
		if keyword == "" {
			return
		}
		if text, ok := e.source.ActiveSnippets()[keyword]; ok {
			e.expand(keyword, text)
		}
	case KeyBackspace:
		if len(e.buffer) > 0 {
			e.buffer = e.buffer[:len(e.buffer)-1]
		}
	case KeyRune:
		e.buffer = append(e.buffer, ev.Rune)
		if len(e.buffer) > maxBuffer {
			e.buffer = e.buffer[1:]
		}
	}
}

// expand erases the typed keyword and types the expanded snippet. Argument
// placeholders resolve to their declared defaults; there is no form to fill
// on this path.
func (e *Expander) expand(keyword, text string) {
	res := template.Execute(text, nil, e.readClipboard)

	if err := e.typer.Backspace(utf8.RuneCountInString(keyword)); err != nil {
		log.Printf("auto-expansion: failed to erase keyword %q: %v", keyword, err)
		return
	}
	if err := e.typer.Type(res.Result); err != nil {
		log.Printf("auto-expansion: failed to type expansion for %q: %v", keyword, err)
	}
}
