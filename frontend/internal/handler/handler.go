package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/previewer-dev/previewer/frontend/internal/markdown"
	"github.com/previewer-dev/previewer/frontend/internal/session"
	"github.com/previewer-dev/previewer/shared/config"
	"github.com/previewer-dev/previewer/shared/jwt"
)

// MachineBuilder wires the state machine of a new mount for the host that sent claims.
type MachineBuilder func(r *http.Request, claims *jwt.HandshakeClaims) session.MachineFactory

type Handler struct {
	Templates     map[string]*template.Template
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	Sessions      *session.Store
	NewMachine    MachineBuilder
}

func New(templates map[string]*template.Template, publicCfg config.Public, textProcessor *markdown.TextProcessor, sessions *session.Store, newMachine MachineBuilder) *Handler {
	return &Handler{
		Templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		Sessions:      sessions,
		NewMachine:    newMachine,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// currentSession resolves the {session} URL parameter, answering 404 when it is unknown or expired.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.Sessions.Get(chi.URLParam(r, "session"))
	if !ok {
		http.Error(w, "Preview session not found or expired", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// background detaches work from the request so it outlives the redirect, bounded by the results timeout.
func (h *Handler) background(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), h.Public.Results.Timeout)
}

// wantsJSON reports whether the client asked for a JSON answer instead of a page.
func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json"
}
