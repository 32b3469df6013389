// Package api exposes the snippet service over a local HTTP interface: CRUD
// and search on records, template parsing and execution, the JSON
// import/export exchange, and the auto-expansion bridge for hosts that own a
// keyboard hook.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/snipvault/snipvault/internal/errors"
	"github.com/snipvault/snipvault/internal/expander"
	"github.com/snipvault/snipvault/internal/models"
	"github.com/snipvault/snipvault/internal/service"
)

// Server hosts the HTTP API over a service instance.
type Server struct {
	svc  *service.Service
	port int
}

// NewServer creates a new API server
func NewServer(svc *service.Service, port int) *Server {
	return &Server{svc: svc, port: port}
}

// Start blocks serving the API until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("snipvault API listening on %s", addr)
	return http.ListenAndServe(addr, Routes(s.svc))
}

// Routes builds the router for the snippet API.
func Routes(svc *service.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	relay := &keyRelay{}
	h := &handler{
		svc:   svc,
		errs:  apperrors.NewHTTPErrorHandler(true),
		exp:   expander.New(svc, relay, svc.ReadClipboard),
		relay: relay,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snippets", h.listSnippets)
		r.Post("/snippets", h.createSnippet)
		r.Get("/snippets/{id}", h.getSnippet)
		r.Put("/snippets/{id}", h.updateSnippet)
		r.Delete("/snippets/{id}", h.deleteSnippet)
		r.Get("/snippets/{id}/arguments", h.snippetArguments)
		r.Post("/snippets/{id}/execute", h.executeSnippet)
		r.Post("/parse", h.parseTemplate)
		r.Get("/export", h.exportSnippets)
		r.Post("/import", h.importSnippets)
		r.Get("/expansion", h.getExpansion)
		r.Put("/expansion", h.setExpansion)
		r.Post("/expansion/keys", h.feedKeys)
	})

	return r
}

// handler serves the snippet API. The expander runs behind the key relay:
// hosts that own a keyboard hook post their key events and perform the edits
// the relay hands back.
type handler struct {
	svc   *service.Service
	errs  *apperrors.HTTPErrorHandler
	exp   *expander.Expander
	relay *keyRelay
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *handler) listSnippets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	snippets := h.svc.SearchSnippets(query)
	if snippets == nil {
		snippets = []models.Snippet{}
	}
	h.writeJSON(w, http.StatusOK, snippets)
}

func (h *handler) createSnippet(w http.ResponseWriter, r *http.Request) {
	var sn models.Snippet
	if err := json.NewDecoder(r.Body).Decode(&sn); err != nil {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	created, err := h.svc.CreateSnippet(sn)
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *handler) getSnippet(w http.ResponseWriter, r *http.Request) {
	sn, err := h.svc.GetSnippet(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sn)
}

func (h *handler) updateSnippet(w http.ResponseWriter, r *http.Request) {
	var sn models.Snippet
	if err := json.NewDecoder(r.Body).Decode(&sn); err != nil {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	sn.ID = chi.URLParam(r, "id")

	updated, err := h.svc.UpdateSnippet(sn)
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteSnippet(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSnippet(chi.URLParam(r, "id")); err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) snippetArguments(w http.ResponseWriter, r *http.Request) {
	sn, err := h.svc.GetSnippet(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	specs := h.svc.ParseArguments(sn.Text)
	h.writeJSON(w, http.StatusOK, specs)
}

// executeRequest carries the user-chosen argument values for an execution.
type executeRequest struct {
	Values map[string]string `json:"values"`
	// Copy delivers the result to the system clipboard as well.
	Copy bool `json:"copy,omitempty"`
}

func (h *handler) executeSnippet(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	id := chi.URLParam(r, "id")
	if req.Copy {
		res, err := h.svc.ExecuteAndCopy(id, req.Values)
		if err != nil {
			h.errs.WriteHTTPError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, res)
		return
	}

	res, err := h.svc.ExecuteSnippet(id, req.Values)
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// parseRequest asks for the argument form of a raw template.
type parseRequest struct {
	Text string `json:"text"`
}

func (h *handler) parseTemplate(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	specs := h.svc.ParseArguments(req.Text)
	h.writeJSON(w, http.StatusOK, specs)
}

func (h *handler) exportSnippets(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export()
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *handler) importSnippets(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.errs.WriteHTTPError(w, apperrors.ValidationError("failed to read request body"))
		return
	}

	n, err := h.svc.Import(data)
	if err != nil {
		h.errs.WriteHTTPError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}
