package api

import (
	"encoding/json"
	"net/http"
	"sync"

	apperrors "github.com/snipvault/snipvault/internal/errors"
	"github.com/snipvault/snipvault/internal/expander"
)

// keyRelay implements expander.Typer by recording the edits an expansion
// asks for, so the host that owns the keyboard hook can perform them after
// posting its key events.
type keyRelay struct {
	mu         sync.Mutex
	backspaces int
	text       string
	expanded   bool
}

func (r *keyRelay) Backspace(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backspaces = n
	return nil
}

func (r *keyRelay) Type(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = text
	r.expanded = true
	return nil
}

// take returns and clears the recorded edits.
func (r *keyRelay) take() (backspaces int, text string, expanded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	backspaces, text, expanded = r.backspaces, r.text, r.expanded
	r.backspaces, r.text, r.expanded = 0, "", false
	return
}

type expansionStatus struct {
	Enabled bool `json:"enabled"`
}

func (h *handler) getExpansion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, expansionStatus{Enabled: h.exp.IsEnabled()})
}

func (h *handler) setExpansion(w http.ResponseWriter, r *http.Request) {
	var req expansionStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	h.exp.SetEnabled(req.Enabled)
	h.writeJSON(w, http.StatusOK, expansionStatus{Enabled: h.exp.IsEnabled()})
}

// keyEventPayload is one key observed by the host. Kind is "rune", "commit"
// or "backspace"; Text carries the typed runes for "rune" events.
type keyEventPayload struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

type feedKeysRequest struct {
	Keys []keyEventPayload `json:"keys"`
}

// feedKeysResponse tells the host which edits to perform: erase Backspaces
// characters, then type Text.
type feedKeysResponse struct {
	Expanded   bool   `json:"expanded"`
	Backspaces int    `json:"backspaces,omitempty"`
	Text       string `json:"text,omitempty"`
}

func (h *handler) feedKeys(w http.ResponseWriter, r *http.Request) {
	var req feedKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	for _, k := range req.Keys {
		switch k.Kind {
		case "rune":
			for _, ch := range k.Text {
				h.exp.HandleKey(expander.KeyEvent{Kind: expander.KeyRune, Rune: ch})
			}
		case "commit":
			h.exp.HandleKey(expander.KeyEvent{Kind: expander.KeyCommit})
		case "backspace":
			h.exp.HandleKey(expander.KeyEvent{Kind: expander.KeyBackspace})
		default:
			h.errs.WriteHTTPError(w, apperrors.ValidationError("unknown key kind: "+k.Kind))
			return
		}
	}

	backspaces, text, expanded := h.relay.take()
	h.writeJSON(w, http.StatusOK, feedKeysResponse{
		Expanded:   expanded,
		Backspaces: backspaces,
		Text:       text,
	})
}
