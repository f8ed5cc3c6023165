package handler

import (
	"net/http"

	"github.com/previewer-dev/previewer/frontend/internal/session"
	"github.com/previewer-dev/previewer/shared/logger"
	mw "github.com/previewer-dev/previewer/shared/middleware"
)

// Mount starts a preview session for the host's handshake and redirects to its page.
// The listing is loaded in the background; the page shows a spinner until it is ready.
func (h *Handler) Mount(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetHandshakeFromContext(r)
	if claims == nil {
		http.Error(w, "Missing host handshake", http.StatusUnauthorized)
		return
	}

	s := h.Sessions.Create(h.NewMachine(r, claims))
	logger.Log.Info("preview session started", "session_id", s.ID, "project", claims.Project, "run_id", claims.RunID)

	ctx, cancel := h.background(r)
	go func() {
		defer cancel()
		if err := s.Machine.Mount(ctx); err != nil {
			logger.Log.Warn("mount failed", "session_id", s.ID, "error", err)
		}
	}()

	http.Redirect(w, r, session.Path(s.ID), http.StatusSeeOther)
}
