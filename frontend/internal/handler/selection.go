package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/previewer-dev/previewer/frontend/internal/preview"
	"github.com/previewer-dev/previewer/frontend/internal/session"
	"github.com/previewer-dev/previewer/shared/api"
	"github.com/previewer-dev/previewer/shared/logger"
	mw "github.com/previewer-dev/previewer/shared/middleware"
	"github.com/previewer-dev/previewer/shared/utils"
)

// Select previews one attachment. JSON clients wait for the outcome; form posts are redirected
// back to the page at once and watch the spinner. Selections while busy are rejected with 409.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	attachmentID := chi.URLParam(r, "attachmentID")

	if wantsJSON(r) {
		if err := s.Machine.Select(r.Context(), attachmentID); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, stateResponse(s.Machine.State()))
		return
	}

	if s.Machine.State().Busy {
		utils.WriteErrorAndStatusCode(w, preview.ErrBusy)
		return
	}

	ctx, cancel := h.background(r)
	go func() {
		defer cancel()
		if err := s.Machine.Select(ctx, attachmentID); err != nil {
			logger.Log.Debug("selection failed", "session_id", s.ID, "attachment_id", attachmentID, "error", err)
		}
	}()
	http.Redirect(w, r, session.Path(s.ID), http.StatusSeeOther)
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, stateResponse(s.Machine.State()))
}

// Content serves the bytes behind a content handle under the handle's sandbox policy.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	content, ok := s.Handles.Get(chi.URLParam(r, "handle"))
	if !ok {
		http.Error(w, "Content revoked", http.StatusNotFound)
		return
	}

	mw.ContentSandbox(w, content.Sandbox.CSP())
	w.Header().Set("Content-Type", content.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	_, _ = w.Write(content.Data)
}

// redirectOpener opens a URL by redirecting the browsing context the page opened for it.
type redirectOpener struct {
	w http.ResponseWriter
	r *http.Request
}

func (o redirectOpener) Open(url string) error {
	http.Redirect(o.w, o.r, url, http.StatusSeeOther)
	return nil
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(w, r)
	if !ok {
		return
	}
	if err := s.Machine.Download(redirectOpener{w: w, r: r}); err != nil {
		if !errors.Is(err, preview.ErrNothingSelected) && !errors.Is(err, preview.ErrNoDownload) {
			logger.Log.Error("download failed", "session_id", s.ID, "error", err)
		}
		utils.WriteErrorAndStatusCode(w, err)
	}
}

func stateResponse(state preview.State) api.StateResponse {
	resp := api.StateResponse{
		Status:         state.Status.String(),
		Busy:           state.Busy,
		Failure:        state.Failure,
		SelectionError: state.SelectionError,
		Attachments:    make([]api.AttachmentResponse, len(state.Attachments)),
	}
	for i, a := range state.Attachments {
		resp.Attachments[i] = api.AttachmentResponse{ID: a.ID, FileName: a.FileName, Comment: a.Comment}
	}
	if p := state.Selected; p != nil {
		selected := &api.PreviewResponse{
			Title:       p.Title,
			MimeType:    p.MimeType,
			Text:        p.Text,
			URL:         p.URL,
			DownloadURL: p.DownloadURL,
		}
		if attr, ok := p.Sandbox.Attribute(); ok {
			selected.Sandbox = &attr
		}
		resp.Selected = selected
	}
	return resp
}
